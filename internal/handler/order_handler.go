package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req, middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve orders", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListByCustomer handles GET /orders/{id} requests, where id is a customer id.
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	orders, err := h.service.ListByCustomer(r.Context(), customerID, middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve orders", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/{id} requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var patch model.OrderStatusPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, patch); err != nil {
		writeServiceError(w, err, "failed to update order status", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
