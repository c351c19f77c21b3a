// Package validation checks registration and login request bodies.
//
// Each validator runs every field's rules and reports at most one error per
// field: the first rule that field fails. Errors come back in field order.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError describes the first failed rule of one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of one validator pass. Valid is true exactly when
// Errors is empty.
type Result struct {
	Valid  bool         `json:"isValid"`
	Errors []FieldError `json:"errors"`
}

// Field returns the error recorded for field, if any.
func (r Result) Field(field string) (FieldError, bool) {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

var (
	validate = validator.New()

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// specialChars is the set a registration password must draw at least one
// symbol from.
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// NormalizeEmail trims and lowercases an address. It is idempotent.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsEmail reports whether s has the user@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsStrongPassword reports whether s has at least 8 characters including an
// uppercase letter, a lowercase letter, a digit and a special character.
func IsStrongPassword(s string) bool {
	if !check(s, "min=8") {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func check(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// rule returns an error message, or "" when the value passes.
type rule func() string

// collector accumulates the first failure of each field.
type collector struct {
	errs []FieldError
}

func (c *collector) field(name string, rules ...rule) {
	for _, r := range rules {
		if msg := r(); msg != "" {
			c.errs = append(c.errs, FieldError{Field: name, Message: msg})
			return
		}
	}
}

func (c *collector) result() Result {
	return Result{Valid: len(c.errs) == 0, Errors: c.errs}
}

func required(value, msg string) rule {
	return func() string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

func satisfies(value any, tag, msg string) rule {
	return func() string {
		if !check(value, tag) {
			return msg
		}
		return ""
	}
}

func when(ok func() bool, msg string) rule {
	return func() string {
		if !ok() {
			return msg
		}
		return ""
	}
}

func emailRules(email string) []rule {
	normalized := NormalizeEmail(email)
	return []rule{
		required(email, "Email is required"),
		when(func() bool { return IsEmail(normalized) }, "Invalid email format"),
	}
}
