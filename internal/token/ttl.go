package token

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is the token lifetime when none (or an unparseable one) is set.
const DefaultTTL = 7 * 24 * time.Hour

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd]?)$`)

// ParseTTL reads "3600", "30s", "15m", "12h" or "7d". Anything else,
// including the empty string, yields DefaultTTL.
func ParseTTL(s string) time.Duration {
	m := ttlPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DefaultTTL
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return DefaultTTL
	}

	unit := time.Second
	switch m[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	// Reject values that would overflow time.Duration.
	if n > int64(1<<63-1)/int64(unit) {
		return DefaultTTL
	}
	return time.Duration(n) * unit
}
