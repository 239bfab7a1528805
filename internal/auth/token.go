package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// Role is the local role of a session.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	Account string
	Role    Role
}

type claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

const issuer = "lensflow"

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(id Identity) (string, error) {
	if id.Account == "" || !id.Role.Valid() {
		return "", fmt.Errorf("issuing token for %q/%q: %w", id.Account, id.Role, model.ErrValidation)
	}

	now := t.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Account,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify returns model.ErrUnauthorized for any token that is malformed,
// expired, signed with another key or method, or missing its claims.
func (t *Tokens) Verify(raw string) (Identity, error) {
	var c claims

	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("token expired: %w", model.ErrUnauthorized)
		}

		return Identity{}, fmt.Errorf("invalid token: %w", model.ErrUnauthorized)
	}

	if c.Subject == "" || !c.Role.Valid() {
		return Identity{}, fmt.Errorf("token missing claims: %w", model.ErrUnauthorized)
	}

	return Identity{Account: c.Subject, Role: c.Role}, nil
}
