package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError logs 5xx at error level and everything else at debug.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "sending error response",
		"status_code", status,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method)
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
