// Package session resolves the session cookie of a request into a
// role-tagged identity.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alecgard/scoutline/internal/identity"
	"github.com/alecgard/scoutline/internal/token"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

// Descriptor error strings.
const (
	ErrNoToken      = "No session token found"
	ErrInvalidToken = "Invalid or expired token"
	ErrValidation   = "Session validation failed"
)

// Verifier checks a token and returns its payload.
type Verifier interface {
	Verify(tokenString string) (*token.Payload, error)
}

// Descriptor is the outcome of validating a request's session. Identity and
// Email are set only when Valid is true; Error only when it is false.
type Descriptor struct {
	Valid    bool
	Identity identity.Identity
	Email    string
	Error    string
}

// Role returns the session role, or "" for an invalid session.
func (d Descriptor) Role() identity.Role {
	return d.Identity.Role()
}

// SubjectID returns the id of the session's player or coach.
func (d Descriptor) SubjectID() string {
	return d.Identity.SubjectID()
}

// Result is a short label for the outcome: "valid", "no_token",
// "invalid_token" or "error".
func (d Descriptor) Result() string {
	switch {
	case d.Valid:
		return "valid"
	case d.Error == ErrNoToken:
		return "no_token"
	case d.Error == ErrInvalidToken:
		return "invalid_token"
	default:
		return "error"
	}
}

type descriptorJSON struct {
	Valid     bool          `json:"valid"`
	Role      identity.Role `json:"role,omitempty"`
	SubjectID string        `json:"subjectId,omitempty"`
	Email     string        `json:"email,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// MarshalJSON flattens the identity into role and subjectId fields.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(descriptorJSON{
		Valid:     d.Valid,
		Role:      d.Identity.Role(),
		SubjectID: d.Identity.SubjectID(),
		Email:     d.Email,
		Error:     d.Error,
	})
}

func invalid(msg string) Descriptor {
	return Descriptor{Error: msg}
}

// ExtractToken returns the session cookie value, or "" when it is absent.
func ExtractToken(r *http.Request) (tok string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Debug("reading session cookie", "panic", fmt.Sprint(rec))
			tok = ""
		}
	}()
	if r == nil {
		return ""
	}
	c, err := r.Cookie(CookieName)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			slog.Debug("reading session cookie", "error", err)
		}
		return ""
	}
	return c.Value
}

// Validator turns requests into Descriptors.
type Validator struct {
	verifier Verifier
	logger   *slog.Logger
	observe  func(Descriptor)
}

// NewValidator creates a validator that checks tokens with v.
func NewValidator(v Verifier) *Validator {
	return &Validator{verifier: v, logger: slog.Default()}
}

// WithObserver sets fn to be called with every Descriptor Validate returns.
func (v *Validator) WithObserver(fn func(Descriptor)) *Validator {
	v.observe = fn
	return v
}

// Validate never panics and never returns verifier error detail; failures
// other than a bad token are logged and reported as ErrValidation.
func (v *Validator) Validate(r *http.Request) Descriptor {
	d := v.validate(r)
	if v.observe != nil {
		v.observe(d)
	}
	return d
}

func (v *Validator) validate(r *http.Request) (d Descriptor) {
	defer func() {
		if rec := recover(); rec != nil {
			v.logger.Error("session validation panicked", "panic", fmt.Sprint(rec))
			d = invalid(ErrValidation)
		}
	}()

	tok := ExtractToken(r)
	if tok == "" {
		return invalid(ErrNoToken)
	}

	payload, err := v.verifier.Verify(tok)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return invalid(ErrInvalidToken)
		}
		v.logger.Error("session validation failed", "error", err)
		return invalid(ErrValidation)
	}
	if payload == nil {
		return invalid(ErrInvalidToken)
	}

	id := payload.Identity()
	if id.IsZero() {
		return invalid(ErrInvalidToken)
	}
	return Descriptor{Valid: true, Identity: id, Email: payload.Email}
}
