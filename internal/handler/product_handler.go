package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalog HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve products", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Categories handles GET /categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve categories", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Statuses handles GET /status requests.
func (h *ProductHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Statuses(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve statuses", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// Update handles PUT /products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var p model.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SEODescription handles GET /products/{id}/seo-description requests.
func (h *ProductHandler) SEODescription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	desc, err := h.service.SEODescription(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to generate description", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.SEODescriptionResponse{SEODescription: desc})
}

// InitCustom handles POST /init/custom requests.
func (h *ProductHandler) InitCustom(w http.ResponseWriter, r *http.Request) {
	var req model.InitCustomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	msg, err := h.service.InitCustom(r.Context(), req.Products)
	if err != nil {
		writeServiceError(w, err, "failed to initialize database", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: msg})
}
