package api

import (
	"net/http"
	"strconv"

	"github.com/mathbuddy/mathbuddy/internal/logger"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 0
	if ps, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		pageSize = ps
	}
	log.Debug("history requested: page=%d, page_size=%d", page, pageSize)

	result, err := s.HistoryService.History(r.Context(), page, pageSize)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
