// Package credential stores player and coach accounts in Postgres.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alecgard/scoutline/internal/identity"
)

var (
	// ErrNotFound is returned when no account matches a lookup.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when an insert hits the email unique index.
	ErrEmailTaken = errors.New("email already registered")
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides database operations for players and coaches. Email lookups
// are case-insensitive.
type Store struct {
	db DB
}

// NewStore creates a store backed by db, normally a *pgxpool.Pool owned by
// the caller.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

func tableFor(role identity.Role) (string, error) {
	switch role {
	case identity.RolePlayer:
		return "players", nil
	case identity.RoleCoach:
		return "coaches", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

const playerColumns = `id, email, password_hash, first_name, last_name, sex, sport, position,
	gpa, country, state, region, scholarship_amount, test_scores, created_at`

const coachColumns = `id, email, password_hash, first_name, last_name, coaching_category,
	sports, university, country, created_at`

func scanPlayer(scan func(dest ...any) error) (*Player, error) {
	p := &Player{}
	err := scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.Sex, &p.Sport,
		&p.Position, &p.GPA, &p.Country, &p.State, &p.Region, &p.ScholarshipAmount, &p.TestScores,
		&p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanCoach(scan func(dest ...any) error) (*Coach, error) {
	c := &Coach{}
	err := scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.CoachingCategory,
		&c.Sports, &c.University, &c.Country, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.Sports == nil {
		c.Sports = []string{}
	}
	return c, nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

// EmailExists reports whether an account of role already uses email.
func (s *Store) EmailExists(ctx context.Context, role identity.Role, email string) (bool, error) {
	table, err := tableFor(role)
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}

// CreatePlayer inserts a player and returns its new id.
func (s *Store) CreatePlayer(ctx context.Context, in NewPlayer) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx,
		`INSERT INTO players (id, email, password_hash, first_name, last_name, sex, sport, position,
			gpa, country, state, region, scholarship_amount, test_scores)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		id, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.Sex, in.Sport, in.Position,
		in.GPA, in.Country, in.State, in.Region, in.ScholarshipAmount, in.TestScores,
	)
	if err != nil {
		return "", translate(err, "creating player")
	}
	return id, nil
}

// CreateCoach inserts a coach and returns its new id.
func (s *Store) CreateCoach(ctx context.Context, in NewCoach) (string, error) {
	id := uuid.NewString()
	sports := in.Sports
	if sports == nil {
		sports = []string{}
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO coaches (id, email, password_hash, first_name, last_name, coaching_category,
			sports, university, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.CoachingCategory,
		sports, in.University, in.Country,
	)
	if err != nil {
		return "", translate(err, "creating coach")
	}
	return id, nil
}

// GetPlayerByEmail retrieves a player by email address.
func (s *Store) GetPlayerByEmail(ctx context.Context, email string) (*Player, error) {
	p, err := scanPlayer(func(dest ...any) error {
		return s.db.QueryRow(ctx,
			`SELECT `+playerColumns+` FROM players WHERE lower(email) = lower($1)`, email,
		).Scan(dest...)
	})
	if err != nil {
		return nil, translate(err, "getting player by email")
	}
	return p, nil
}

// GetPlayerByID retrieves a player by primary key.
func (s *Store) GetPlayerByID(ctx context.Context, id string) (*Player, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	p, err := scanPlayer(func(dest ...any) error {
		return s.db.QueryRow(ctx,
			`SELECT `+playerColumns+` FROM players WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, translate(err, "getting player by id")
	}
	return p, nil
}

// GetCoachByEmail retrieves a coach by email address.
func (s *Store) GetCoachByEmail(ctx context.Context, email string) (*Coach, error) {
	c, err := scanCoach(func(dest ...any) error {
		return s.db.QueryRow(ctx,
			`SELECT `+coachColumns+` FROM coaches WHERE lower(email) = lower($1)`, email,
		).Scan(dest...)
	})
	if err != nil {
		return nil, translate(err, "getting coach by email")
	}
	return c, nil
}

// GetCoachByID retrieves a coach by primary key.
func (s *Store) GetCoachByID(ctx context.Context, id string) (*Coach, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	c, err := scanCoach(func(dest ...any) error {
		return s.db.QueryRow(ctx,
			`SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		return nil, translate(err, "getting coach by id")
	}
	return c, nil
}

// GetByEmail returns the credential record of the role's account with email.
func (s *Store) GetByEmail(ctx context.Context, role identity.Role, email string) (*Record, error) {
	switch role {
	case identity.RolePlayer:
		p, err := s.GetPlayerByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return p.Record(), nil
	case identity.RoleCoach:
		c, err := s.GetCoachByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return c.Record(), nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}
