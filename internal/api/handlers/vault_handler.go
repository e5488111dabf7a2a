package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/keypulse-be/internal/api/respond"
	"github.com/isdelr/keypulse-be/internal/auth"
	"github.com/isdelr/keypulse-be/internal/models"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/rs/zerolog/log"
)

// VaultHandler handles HTTP requests for the caller's stored credentials.
type VaultHandler struct {
	service services.VaultServiceProvider
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(service services.VaultServiceProvider) *VaultHandler {
	return &VaultHandler{service: service}
}

// CredentialPayload defines the structure for create and update requests.
// ID is honored on create only.
type CredentialPayload struct {
	ID       string `json:"id,omitempty"`
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p CredentialPayload) input() services.CredentialInput {
	return services.CredentialInput{
		ID:       p.ID,
		Site:     p.Site,
		Username: p.Username,
		Password: p.Password,
	}
}

type createResponse struct {
	Success  bool               `json:"success"`
	Result   models.WriteResult `json:"result"`
	Password models.Credential  `json:"password"`
}

type writeResponse struct {
	Success bool               `json:"success"`
	Result  models.WriteResult `json:"result"`
}

// userID returns the authenticated account id, answering 401 when absent.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Could not retrieve user claims from context")
		respond.Error(w, http.StatusUnauthorized, "Access denied, no token provided")
		return "", false
	}
	return id, true
}

// List returns every credential of the caller.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	credentials, err := h.service.List(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list passwords")
		return
	}
	if credentials == nil {
		credentials = []models.Credential{}
	}

	respond.JSON(w, http.StatusOK, credentials)
}

// Create stores a new credential for the caller.
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var payload CredentialPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	credential, result, err := h.service.Create(r.Context(), uid, payload.input())
	if err != nil {
		writeServiceError(w, r, err, "Failed to save password")
		return
	}

	respond.JSON(w, http.StatusOK, createResponse{Success: true, Result: result, Password: credential})
}

// Update overwrites one of the caller's credentials.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var payload CredentialPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	payload.ID = ""

	result, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), payload.input())
	if err != nil {
		writeServiceError(w, r, err, "Failed to update password")
		return
	}

	respond.JSON(w, http.StatusOK, writeResponse{Success: true, Result: result})
}

// Delete removes one of the caller's credentials.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to delete password")
		return
	}

	respond.JSON(w, http.StatusOK, writeResponse{Success: true, Result: result})
}
