package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/keypulse-be/internal/api/respond"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/rs/zerolog/log"
)

// errorStatus maps service errors to the status and message sent to clients.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUsernameTaken, http.StatusBadRequest, "Username already exists"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrCredentialNotFound, http.StatusNotFound, "Password not found or unauthorized"},
}

// fieldErrorBody mirrors one entry of the validation error list the web
// client renders.
type fieldErrorBody struct {
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type validationErrorBody struct {
	Errors []fieldErrorBody `json:"errors"`
}

// writeServiceError translates err into a response. Unmapped errors are
// logged with msg and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body := validationErrorBody{Errors: make([]fieldErrorBody, 0, len(verr.Fields))}
		for _, f := range verr.Fields {
			body.Errors = append(body.Errors, fieldErrorBody{Msg: f.Message, Path: f.Field, Location: "body"})
		}
		respond.JSON(w, http.StatusBadRequest, body)
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			respond.Error(w, m.status, m.message)
			return
		}
	}

	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(msg)
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request body")
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
