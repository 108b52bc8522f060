package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// RegisteredMessage confirms a new account.
const RegisteredMessage = "User registered successfully"

// AuthHandler handles login and registration.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	token, err := h.service.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, err, "failed to log in", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token})
}

// Register handles POST /register requests. Self-registration always
// creates a customer account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if _, err := h.service.Register(r.Context(), creds, model.RoleCustomer); err != nil {
		writeServiceError(w, err, "failed to register", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: RegisteredMessage})
}
