package auth

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	// ErrWeakPassword is returned when a password breaks the sign-up rule.
	ErrWeakPassword = errors.New("password must be at least 8 characters long and alphanumeric")

	// ErrPasswordMismatch is returned by CheckPassword on a wrong password.
	ErrPasswordMismatch = errors.New("password mismatch")
)

var (
	alnum8RE  = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)
	letterRE  = regexp.MustCompile(`[A-Za-z]`)
	numeralRE = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword requires 8+ ASCII letters/digits with at least one of each.
func ValidatePassword(pw string) error {
	if !alnum8RE.MatchString(pw) || !letterRE.MatchString(pw) || !numeralRE.MatchString(pw) {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword compares pw against hash.
func CheckPassword(hash, pw string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
