package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_ClampsCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"below minimum", 4, MinCost},
		{"zero", 0, MinCost},
		{"default", DefaultCost, DefaultCost},
		{"above minimum", 11, 11},
		{"above maximum", 40, bcrypt.MaxCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewHasher(tt.cost).Cost())
		})
	}
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	h := NewHasher(11)
	hash, err := h.Hash("ValidPass1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 11, cost)
}

func TestHash_FreshSaltEachCall(t *testing.T) {
	h := NewHasher(DefaultCost)

	first, err := h.Hash("ValidPass1!")
	require.NoError(t, err)
	second, err := h.Hash("ValidPass1!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, h.Verify("ValidPass1!", first))
	assert.True(t, h.Verify("ValidPass1!", second))
}

func TestVerify_RoundTrip(t *testing.T) {
	h := NewHasher(DefaultCost)

	passwords := map[string]string{
		"ascii":       "ValidPass1!",
		"unicode":     "Pässwörd1!密码🔐",
		"whitespace":  "  pass word\twith\nspaces 1A!  ",
		"exactly 72":  strings.Repeat("a", 72),
		"longer":      strings.Repeat("Ab1!", 64),
		"single char": "x",
	}

	for name, pw := range passwords {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash(pw)
			require.NoError(t, err)
			assert.True(t, h.Verify(pw, hash))
		})
	}
}

func TestVerify_LongPasswordsDifferAfter72Bytes(t *testing.T) {
	h := NewHasher(DefaultCost)
	base := strings.Repeat("a", 80)

	hash, err := h.Hash(base + "X")
	require.NoError(t, err)

	assert.True(t, h.Verify(base+"X", hash))
	assert.False(t, h.Verify(base+"Y", hash))
}

func TestVerify_Rejects(t *testing.T) {
	h := NewHasher(DefaultCost)
	hash, err := h.Hash("ValidPass1!")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		hash      string
	}{
		{"wrong password", "ValidPass2!", hash},
		{"case differs", "validpass1!", hash},
		{"empty password", "", hash},
		{"empty hash", "ValidPass1!", ""},
		{"garbage hash", "ValidPass1!", "not-a-bcrypt-hash"},
		{"truncated hash", "ValidPass1!", hash[:20]},
		{"bad cost prefix", "ValidPass1!", "$2a$99$" + hash[7:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, h.Verify(tt.plaintext, tt.hash))
		})
	}
}
