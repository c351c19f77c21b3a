// Package identity defines the two account roles and the role-tagged
// identity carried by session tokens.
package identity

import (
	"fmt"
	"strings"
)

// Role discriminates player and coach accounts.
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// ParseRole accepts "player" or "coach" in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePlayer:
		return RolePlayer, nil
	case RoleCoach:
		return RoleCoach, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleCoach
}

// IDField is the JSON field name used for this role's id in responses,
// "playerId" or "coachId".
func (r Role) IDField() string {
	return string(r) + "Id"
}

func (r Role) String() string {
	return string(r)
}

// Identity is either a player or a coach. Tokens carry the id in a single
// subjectId field; Identity keeps the role attached so a coach id can never
// be read as a player id.
type Identity struct {
	role Role
	id   string
}

// Player returns the identity of a player account.
func Player(id string) Identity {
	return Identity{role: RolePlayer, id: id}
}

// Coach returns the identity of a coach account.
func Coach(id string) Identity {
	return Identity{role: RoleCoach, id: id}
}

// New builds an identity for role. Unknown roles yield the zero Identity.
func New(role Role, id string) Identity {
	if !role.Valid() || id == "" {
		return Identity{}
	}
	return Identity{role: role, id: id}
}

// Role returns the identity's role, or "" for the zero Identity.
func (i Identity) Role() Role {
	return i.role
}

// SubjectID returns the id regardless of role, for the token wire format.
func (i Identity) SubjectID() string {
	return i.id
}

// PlayerID returns the id when the identity is a player.
func (i Identity) PlayerID() (string, bool) {
	if i.role != RolePlayer {
		return "", false
	}
	return i.id, true
}

// CoachID returns the id when the identity is a coach.
func (i Identity) CoachID() (string, bool) {
	if i.role != RoleCoach {
		return "", false
	}
	return i.id, true
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.role == "" && i.id == ""
}

func (i Identity) String() string {
	if i.IsZero() {
		return "<none>"
	}
	return string(i.role) + ":" + i.id
}
