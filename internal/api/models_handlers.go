package api

import (
	"net/http"

	"github.com/mathbuddy/mathbuddy/internal/errors"
)

// handleListModels is a diagnostic passthrough listing the completion
// service's generation-capable models.
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	if s.Gemini == nil {
		handleError(w, r, errors.NewConfigError("GOOGLE_API_KEY missing"))
		return
	}

	names, err := s.Gemini.ListModels(r.Context())
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(w, r, http.StatusOK, names)
}
