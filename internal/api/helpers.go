package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mathbuddy/mathbuddy/internal/logger"
)

const maxBodyBytes = 64 << 10

// decodeJSON decodes a request body into dst with json.Number preserved, so
// callers can accept fields that are either numbers or strings. An empty body
// decodes to the zero value of dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
