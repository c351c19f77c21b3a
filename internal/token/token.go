// Package token issues and verifies HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alecgard/scoutline/internal/identity"
)

var (
	// ErrMissingSecret is returned by Issue when no signing secret is set.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	// ErrInvalidToken matches every Verify failure.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the JWT body. Players and coaches share the subjectId field;
// the role claim says which one it is.
type Claims struct {
	SubjectID string        `json:"subjectId"`
	Email     string        `json:"email"`
	Role      identity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Payload is a verified token's content.
type Payload struct {
	SubjectID string
	Email     string
	Role      identity.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity returns the role-tagged identity of the token subject.
func (p *Payload) Identity() identity.Identity {
	return identity.New(p.Role, p.SubjectID)
}

// Options configures a Service.
type Options struct {
	Secret string
	// TTL uses ParseTTL syntax; empty means DefaultTTL.
	TTL string
}

// Service signs and verifies tokens. It holds no mutable state and is safe
// for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. A missing secret is not an error
// here; Issue reports it and Verify rejects every token.
func NewService(opts Options) *Service {
	return &Service{
		secret: []byte(opts.Secret),
		ttl:    ParseTTL(opts.TTL),
		now:    time.Now,
	}
}

// TTL returns the lifetime given to issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given subject. An empty role means player.
func (s *Service) Issue(subjectID, email string, role identity.Role) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	if role == "" {
		role = identity.RolePlayer
	}

	now := s.now()
	claims := Claims{
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the payload.
// All failures wrap ErrInvalidToken; Verify does not panic.
func (s *Service) Verify(tokenString string) (*Payload, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSecret)
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SubjectID == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}

	p := &Payload{
		SubjectID: claims.SubjectID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	return p, nil
}
