package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/metadata"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/recommend"
	"github.com/hyperjump/reelmatch/internal/storage"
	"github.com/hyperjump/reelmatch/internal/validation"
)

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error       string                  `json:"error"`
	Suggestions []string                `json:"suggestions,omitempty"`
	Fields      []validation.FieldError `json:"fields,omitempty"`
}

// providerError marks a failure talking to the metadata provider.
type providerError struct{ err error }

func (e providerError) Error() string { return e.err.Error() }
func (e providerError) Unwrap() error { return e.err }

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		verr *validation.RequestError
		perr providerError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, models.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, recommend.ErrNotFound),
		errors.Is(err, storage.ErrMovieNotFound),
		errors.Is(err, metadata.ErrMovieNotFound),
		errors.Is(err, metadata.ErrPersonNotFound):
		return http.StatusNotFound
	case errors.Is(err, metadata.ErrDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, metadata.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}
	var (
		nf   *recommend.NotFoundError
		verr *validation.RequestError
	)
	if errors.As(err, &nf) {
		body.Suggestions = nf.Suggestions
	}
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.respondJSON(w, status, body)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}
