package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OptionalNumber is a numeric form field that may arrive as a JSON number, a
// numeric string, an empty string, null, or not at all. Null, "" and absence
// all mean "not provided", which is distinct from 0.
type OptionalNumber struct {
	Value float64
	// Set is true when a non-empty value was supplied.
	Set bool
	// Valid is true when Set and the value parsed as a finite number.
	Valid bool
}

// Number returns a provided, valid OptionalNumber.
func Number(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Set: true, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler. Values of other JSON types
// (objects, arrays, booleans) are rejected as malformed input.
func (n *OptionalNumber) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = OptionalNumber{}
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = OptionalNumber{}
			return nil
		}
		*n = OptionalNumber{Set: true}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.Value = f
			n.Valid = true
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*n = Number(f)
	return nil
}

// MarshalJSON writes the number, or null when not provided or invalid.
func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when not provided or invalid.
func (n OptionalNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
