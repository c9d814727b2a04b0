package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/terra-clan/travel-catalog/internal/carousel"
	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/content"
	"github.com/terra-clan/travel-catalog/internal/forms"
	"github.com/terra-clan/travel-catalog/internal/view"
)

// Response helpers

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondFieldErrors(w, status, code, message, nil)
}

func respondFieldErrors(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps package sentinel errors onto HTTP statuses.
// Anything unrecognised is logged and reported as an internal error.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFieldErrors(w, http.StatusUnprocessableEntity, "validation_error", "submission has invalid fields", verr.Fields)
	case errors.Is(err, catalog.ErrCatalogNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, view.ErrViewNotFound),
		errors.Is(err, content.ErrPageNotFound),
		errors.Is(err, forms.ErrUnknownForm):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, view.ErrViewClosed):
		respondError(w, http.StatusGone, "view_closed", err.Error())
	case errors.Is(err, catalog.ErrUnknownDimension),
		errors.Is(err, catalog.ErrInvalidSortKey),
		errors.Is(err, carousel.ErrSlideOutOfRange),
		errors.Is(err, view.ErrUnknownAction):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, content.ErrPageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "content_unavailable", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "action", action, "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.checks.Ready(r.Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"checks":   s.checks.List(),
		"catalogs": s.catalogs.Len(),
		"views":    s.views.Len(),
	})
}
