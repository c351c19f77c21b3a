package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alecgard/scoutline/internal/identity"
)

type contextKey int

const sessionContextKey contextKey = iota

// ContextWithSession returns a new context carrying the given session.
func ContextWithSession(ctx context.Context, d Descriptor) context.Context {
	return context.WithValue(ctx, sessionContextKey, d)
}

// FromContext extracts the session from the context. ok is false when no
// valid session was stored.
func FromContext(ctx context.Context) (Descriptor, bool) {
	d, ok := ctx.Value(sessionContextKey).(Descriptor)
	return d, ok && d.Valid
}

// Require returns middleware that admits only requests with a valid session.
// A non-empty role restricts access to that role, and a non-empty param
// requires the chi URL parameter of that name to equal the session subject.
func Require(v *Validator, role identity.Role, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := v.Validate(r)
			if !d.Valid {
				writeUnauthorized(w, d.Error)
				return
			}
			if role != "" && d.Role() != role {
				writeForbidden(w, "Access restricted to "+role.String()+" accounts")
				return
			}
			if param != "" && chi.URLParam(r, param) != d.SubjectID() {
				writeForbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), d)))
		})
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message})
}
