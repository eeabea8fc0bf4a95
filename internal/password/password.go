// Package password enforces the credential policy and wraps bcrypt hashing.
package password

import (
	"regexp"

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Policy violations. The messages are user-facing and reported inline, so they
// keep full sentences rather than the usual lowercase error convention.
var (
	ErrTooShort          = PolicyError("Password must be at least 8 characters long.")
	ErrMissingUppercase  = PolicyError("Password must contain at least one uppercase letter.")
	ErrMissingLowercase  = PolicyError("Password must contain at least one lowercase letter.")
	ErrMissingDigit      = PolicyError("Password must contain at least one digit.")
	ErrSecondaryTooShort = PolicyError("Secondary password must be at least 8 characters long.")
)

// PolicyError is a recoverable validation outcome, distinct from
// infrastructure failures.
type PolicyError string

func (e PolicyError) Error() string { return string(e) }

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`\d`)
)

// ValidatePolicy checks the primary-password policy and returns the first
// violated rule. Rules are evaluated in a fixed order (length, uppercase,
// lowercase, digit) so the reported reason is deterministic.
func ValidatePolicy(pw string) error {
	if len(pw) < 8 {
		return ErrTooShort
	}
	if !upperRe.MatchString(pw) {
		return ErrMissingUppercase
	}
	if !lowerRe.MatchString(pw) {
		return ErrMissingLowercase
	}
	if !digitRe.MatchString(pw) {
		return ErrMissingDigit
	}
	return nil
}

// ValidateSecondaryPolicy checks the secondary-password policy. It is
// intentionally weaker than the primary policy (length only, no character
// classes), matching the reference behavior.
func ValidateSecondaryPolicy(pw string) error {
	if len(pw) < 8 {
		return ErrSecondaryTooShort
	}
	return nil
}

// Hash returns the bcrypt hash of pw. A cost of 0 selects bcrypt.DefaultCost.
func Hash(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether pw matches the stored bcrypt hash. Comparison is
// constant-time within bcrypt itself.
func Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
