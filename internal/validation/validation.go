// Package validation holds credential format rules shared by registration
// and profile validation.
package validation

import (
	"regexp"
	"unicode/utf8"
)

var (
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// ValidEmail reports whether the address is well formed.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidUsername reports whether the username is 3-30 characters of
// letters, digits and underscores.
func ValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// PasswordErrors returns every strength requirement the password fails:
// minimum 8 characters with at least one uppercase letter, one lowercase
// letter and one digit.
func PasswordErrors(password string) []string {
	var errs []string

	if utf8.RuneCountInString(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !upperRegex.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !lowerRegex.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !digitRegex.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}

	return errs
}
