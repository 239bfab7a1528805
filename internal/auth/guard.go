// Package auth gates destructive operations behind the admin credential and
// issues the session tokens that carry an account id and a local role.
package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// Guard checks the secondary admin credential before destructive operations.
type Guard struct {
	username string
	hash     []byte
}

// NewGuard expects a bcrypt hash of the admin password.
func NewGuard(username, passwordHash string) *Guard {
	return &Guard{username: username, hash: []byte(passwordHash)}
}

// Check returns model.ErrUnauthorized unless both values match.
func (g *Guard) Check(username, password string) error {
	if len(g.hash) == 0 {
		return fmt.Errorf("admin credential not configured: %w", model.ErrUnauthorized)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.hash, []byte(password))

	if !userOK || passErr != nil {
		return fmt.Errorf("admin credential rejected: %w", model.ErrUnauthorized)
	}

	return nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(h), nil
}
