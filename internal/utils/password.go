package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt rejects input longer than 72 bytes.
	MaxPasswordLength = 72
)

// PasswordLengthValid reports whether pw fits the accepted byte range.
func PasswordLengthValid(pw string) bool {
	n := len([]byte(pw))
	return n >= MinPasswordLength && n <= MaxPasswordLength
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword returns nil only when hash matches password. An empty hash
// (placeholder companies created by the hosted-auth flow) never matches.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return errors.New("no password set")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
