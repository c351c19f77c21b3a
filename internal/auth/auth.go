// Package auth registers players and coaches and logs them in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecgard/scoutline/internal/credential"
	"github.com/alecgard/scoutline/internal/identity"
	"github.com/alecgard/scoutline/internal/validation"
)

// Outcome labels passed to the Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CredentialStore is the account storage the service needs.
type CredentialStore interface {
	GetByEmail(ctx context.Context, role identity.Role, email string) (*credential.Record, error)
	EmailExists(ctx context.Context, role identity.Role, email string) (bool, error)
	CreatePlayer(ctx context.Context, in credential.NewPlayer) (string, error)
	CreateCoach(ctx context.Context, in credential.NewCoach) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(subjectID, email string, role identity.Role) (string, error)
}

// Recorder counts authentication outcomes.
type Recorder interface {
	RecordAuth(operation, role, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuth(string, string, string) {}

// Deps holds the collaborators of a Service. Recorder may be nil.
type Deps struct {
	Store    CredentialStore
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Recorder Recorder
	Logger   *slog.Logger
}

// Service provides registration and login.
type Service struct {
	store    CredentialStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	recorder Recorder
	logger   *slog.Logger

	// decoy is verified when an email is unknown so that both login
	// failures cost one hash comparison.
	decoy string
}

// NewService creates an authentication service.
func NewService(d Deps) *Service {
	s := &Service{
		store:    d.Store,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		recorder: d.Recorder,
		logger:   d.Logger,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if decoy, err := s.hasher.Hash("scoutline-decoy-password"); err == nil {
		s.decoy = decoy
	}
	return s
}

// LoginResult is a successful login.
type LoginResult struct {
	Token    string
	Identity identity.Identity
	Email    string
}

// Login checks credentials for role and issues a session token.
func (s *Service) Login(ctx context.Context, role identity.Role, req validation.LoginRequest) (*LoginResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if res := validation.ValidateLogin(req); !res.Valid {
		s.recorder.RecordAuth("login", role.String(), OutcomeInvalid)
		return nil, &ValidationError{Errors: res.Errors}
	}

	email := validation.NormalizeEmail(req.Email)
	rec, err := s.store.GetByEmail(ctx, role, email)
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		s.recorder.RecordAuth("login", role.String(), OutcomeError)
		return nil, fmt.Errorf("looking up %s: %w", role, err)
	}

	hash := s.decoy
	if rec != nil {
		hash = rec.PasswordHash
	}
	matched := s.hasher.Verify(req.Password, hash)
	if rec == nil || !matched {
		s.recorder.RecordAuth("login", role.String(), OutcomeRejected)
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(rec.ID, rec.Email, role)
	if err != nil {
		s.recorder.RecordAuth("login", role.String(), OutcomeError)
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.recorder.RecordAuth("login", role.String(), OutcomeSuccess)
	s.logger.Info("login", "role", role, "subject_id", rec.ID)
	return &LoginResult{
		Token:    tok,
		Identity: identity.New(role, rec.ID),
		Email:    rec.Email,
	}, nil
}

// RegisterPlayer creates a player account and returns its id.
func (s *Service) RegisterPlayer(ctx context.Context, in validation.PlayerRegistration) (string, error) {
	if res := validation.ValidatePlayer(in); !res.Valid {
		s.recorder.RecordAuth("register", identity.RolePlayer.String(), OutcomeInvalid)
		return "", &ValidationError{Errors: res.Errors}
	}

	email := validation.NormalizeEmail(in.Email)
	np := credential.NewPlayer{
		Email:             email,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Sex:               strings.ToLower(strings.TrimSpace(in.Sex)),
		Sport:             strings.TrimSpace(in.Sport),
		Position:          strings.TrimSpace(in.Position),
		GPA:               in.GPA.Value,
		Country:           strings.TrimSpace(in.Country),
		ScholarshipAmount: in.ScholarshipAmount.Ptr(),
		TestScores:        optional(in.TestScores),
	}
	if validation.IsUSA(in.Country) {
		np.State = optional(in.State)
	} else {
		np.Region = optional(in.Region)
	}

	return s.register(ctx, identity.RolePlayer, email, in.Password, func(hash string) (string, error) {
		np.PasswordHash = hash
		return s.store.CreatePlayer(ctx, np)
	})
}

// RegisterCoach creates a coach account and returns its id.
func (s *Service) RegisterCoach(ctx context.Context, in validation.CoachRegistration) (string, error) {
	if res := validation.ValidateCoach(in); !res.Valid {
		s.recorder.RecordAuth("register", identity.RoleCoach.String(), OutcomeInvalid)
		return "", &ValidationError{Errors: res.Errors}
	}

	email := validation.NormalizeEmail(in.Email)
	sports := make([]string, 0, len(in.Sports))
	for _, sp := range in.Sports {
		sports = append(sports, strings.TrimSpace(sp))
	}
	nc := credential.NewCoach{
		Email:            email,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		CoachingCategory: strings.TrimSpace(in.CoachingCategory),
		Sports:           sports,
		University:       strings.TrimSpace(in.University),
		Country:          strings.TrimSpace(in.Country),
	}

	return s.register(ctx, identity.RoleCoach, email, in.Password, func(hash string) (string, error) {
		nc.PasswordHash = hash
		return s.store.CreateCoach(ctx, nc)
	})
}

// register runs the steps shared by both roles once the request is valid.
func (s *Service) register(ctx context.Context, role identity.Role, email, password string, create func(hash string) (string, error)) (string, error) {
	exists, err := s.store.EmailExists(ctx, role, email)
	if err != nil {
		s.recorder.RecordAuth("register", role.String(), OutcomeError)
		return "", fmt.Errorf("checking email: %w", err)
	}
	if exists {
		s.recorder.RecordAuth("register", role.String(), OutcomeRejected)
		return "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.recorder.RecordAuth("register", role.String(), OutcomeError)
		return "", err
	}

	id, err := create(hash)
	if err != nil {
		if errors.Is(err, credential.ErrEmailTaken) {
			s.recorder.RecordAuth("register", role.String(), OutcomeRejected)
			return "", ErrEmailTaken
		}
		s.recorder.RecordAuth("register", role.String(), OutcomeError)
		return "", fmt.Errorf("creating %s: %w", role, err)
	}

	s.recorder.RecordAuth("register", role.String(), OutcomeSuccess)
	s.logger.Info("registered", "role", role, "subject_id", id)
	return id, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
