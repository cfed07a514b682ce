package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/loader"
)

// ErrorResponse is the JSON body of every failed API request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a load failure to an HTTP status
func statusFor(err error) int {
	var formatErr *loader.FormatError
	var transportErr *loader.TransportError

	switch {
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.Is(err, loader.ErrNoSource):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as JSON
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	requestID := middleware.GetReqID(r.Context())

	s.logger.Warn("request error",
		zap.String("path", r.URL.Path),
		zap.Int("status", statusCode),
		zap.String("request_id", requestID),
		zap.Error(err))

	writeJSON(w, statusCode, ErrorResponse{Error: err.Error(), RequestID: requestID})
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
