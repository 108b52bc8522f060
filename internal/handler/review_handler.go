package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ReviewHandler handles order review requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// List handles GET /orders/opinions requests.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve reviews", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// Create handles POST /orders/{id}/opinions requests.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var req model.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	review, err := h.service.Create(r.Context(), orderID, req, middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to create review", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
