package handlers

import (
	"net/http"

	"github.com/isdelr/keypulse-be/internal/api/respond"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for account registration and login.
type AuthHandler struct {
	service services.AccountServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AccountServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// AuthPayload defines the structure for register and login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register handles new account registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	account, err := h.service.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeServiceError(w, r, err, "Failed to register user")
		return
	}

	log.Info().Str("user_id", account.ID).Msg("Registered new account")
	respond.JSON(w, http.StatusCreated, registerResponse{Success: true, UserID: account.ID})
}

// Login handles authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeServiceError(w, r, err, "Failed to log in")
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}
