package services

import (
	"errors"
	"strings"
)

var (
	// ErrUsernameTaken is returned when registering an existing handle.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned for an unknown handle or a wrong
	// passphrase. Both cases return this exact value.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialNotFound is returned when no record matches both the id and
	// the caller. Records of other accounts are reported the same way.
	ErrCredentialNotFound = errors.New("credential not found")
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type field struct {
	name  string
	label string
	value string
}

// requireFields returns a *ValidationError naming every blank field, or nil.
func requireFields(fields ...field) error {
	var verr ValidationError
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   f.name,
				Message: f.label + " is required",
			})
		}
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}
