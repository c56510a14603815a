// Package authutil provides password hashing and validation helpers
// shared by the register and login features.
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing passwords.
const BcryptCost = 12

// Password length bounds. The upper bound exists because bcrypt
// truncates input at 72 bytes and absurdly long passwords are a
// denial-of-service vector for the hasher.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// Password validation errors.
var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordCommon   = errors.New("password is too common")
)

// commonPasswords are rejected regardless of length. Matched
// case-insensitively.
var commonPasswords = map[string]struct{}{
	"123456":    {},
	"12345678":  {},
	"123456789": {},
	"password":  {},
	"password1": {},
	"qwerty":    {},
	"abc123":    {},
	"iloveyou":  {},
	"letmein":   {},
	"football":  {},
	"welcome":   {},
	"monkey":    {},
	"dragon":    {},
	"sunshine":  {},
}

// ValidatePassword checks a candidate password against the length
// bounds and the common-password list.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, bad := commonPasswords[strings.ToLower(password)]; bad {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules returns a human-readable description of the password
// requirements, suitable for error responses.
func PasswordRules() string {
	return fmt.Sprintf("Passwords must be %d to %d characters and not a commonly used password.",
		MinPasswordLength, MaxPasswordLength)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
