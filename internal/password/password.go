// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is used when no cost is configured.
	DefaultCost = 10
	// MinCost is the weakest cost the hasher will accept.
	MinCost = 10

	// bcrypt ignores input past this many bytes.
	maxBcryptInput = 72
)

// Hasher produces and checks salted bcrypt hashes.
// It is safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, clamped to [MinCost, bcrypt.MaxCost].
func NewHasher(cost int) *Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the bcrypt work factor used for new hashes.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt hash of plaintext. Every call uses a fresh salt, so
// hashing the same password twice gives two different strings.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prepare(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes never match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(plaintext)) == nil
}

// prepare digests inputs longer than bcrypt's limit so trailing bytes still
// count. Shorter inputs pass through unchanged and stay compatible with
// hashes produced by other bcrypt implementations.
func prepare(plaintext string) []byte {
	if len(plaintext) <= maxBcryptInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
