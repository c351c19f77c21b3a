package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alecgard/scoutline/internal/validation"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Response messages.
const (
	msgInvalidJSON        = "Invalid JSON in request body"
	msgValidationFailed   = "Validation failed"
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgEmailTaken         = "Email already registered"
	msgLoginSuccessful    = "Login successful"
	msgLoggedOut          = "Logged out"
	msgInternal           = "An unexpected error occurred. Please try again later."
)

// envelope is the response shape of every /auth endpoint.
type envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// writeError writes a {success:false} response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Message: message})
}

// writeValidationError writes a 400 listing the failing fields.
func writeValidationError(w http.ResponseWriter, errs []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{Message: msgValidationFailed, Errors: errs})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit. The body
// must hold exactly one JSON value.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	dec := json.NewDecoder(lr)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
