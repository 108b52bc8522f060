package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies; bulk-init payloads are the largest.
const maxBodyBytes = 32 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service failure onto a status code. Unknown
// failures are reported as fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error(), logger)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", logger)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error(), logger)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error(), logger)
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrReviewExists),
		errors.Is(err, service.ErrAlreadyInitialized):
		writeError(w, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, service.ErrReviewNotAllowed):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), logger)
	default:
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, fallback, logger)
	}
}

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID parses the numeric {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
