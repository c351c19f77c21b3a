package credential

import (
	"time"

	"github.com/alecgard/scoutline/internal/identity"
)

// Record is the part of an account the authentication flow needs.
type Record struct {
	ID           string
	Email        string
	PasswordHash string
	Role         identity.Role
}

// Player is a registered athlete.
type Player struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Sex               string    `json:"sex"`
	Sport             string    `json:"sport"`
	Position          string    `json:"position"`
	GPA               float64   `json:"gpa"`
	Country           string    `json:"country"`
	State             *string   `json:"state,omitempty"`
	Region            *string   `json:"region,omitempty"`
	ScholarshipAmount *float64  `json:"scholarshipAmount,omitempty"`
	TestScores        *string   `json:"testScores,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Record returns the player's credential view.
func (p *Player) Record() *Record {
	return &Record{ID: p.ID, Email: p.Email, PasswordHash: p.PasswordHash, Role: identity.RolePlayer}
}

// Coach is a registered college coach.
type Coach struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	CoachingCategory string    `json:"coachingCategory"`
	Sports           []string  `json:"sports"`
	University       string    `json:"university"`
	Country          string    `json:"country"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Record returns the coach's credential view.
func (c *Coach) Record() *Record {
	return &Record{ID: c.ID, Email: c.Email, PasswordHash: c.PasswordHash, Role: identity.RoleCoach}
}

// NewPlayer holds the fields required to create a player. PasswordHash must
// already be hashed.
type NewPlayer struct {
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Sex               string
	Sport             string
	Position          string
	GPA               float64
	Country           string
	State             *string
	Region            *string
	ScholarshipAmount *float64
	TestScores        *string
}

// NewCoach holds the fields required to create a coach. PasswordHash must
// already be hashed.
type NewCoach struct {
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	CoachingCategory string
	Sports           []string
	University       string
	Country          string
}
