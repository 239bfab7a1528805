package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

func TestGuard_Check(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	g := NewGuard("admin", hash)

	type testCase struct {
		name     string
		username string
		password string
		wantErr  bool
	}

	tests := []testCase{
		{name: "Valid", username: "admin", password: "s3cret"},
		{name: "WrongPassword", username: "admin", password: "nope", wantErr: true},
		{name: "WrongUser", username: "root", password: "s3cret", wantErr: true},
		{name: "Empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrUnauthorized)
				return
			}

			assert.NoError(t, err)
		})
	}

	assert.ErrorIs(t, NewGuard("admin", "").Check("admin", ""), model.ErrUnauthorized)
}

func TestTokens(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tokens := NewTokens("test-secret", time.Hour)
	tokens.now = func() time.Time { return issuedAt }

	raw, err := tokens.Issue(Identity{Account: "acct-1", Role: RoleStaff})
	require.NoError(t, err)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, Identity{Account: "acct-1", Role: RoleStaff}, id)

	t.Run("OtherSecret", func(t *testing.T) {
		other := NewTokens("another", time.Hour)
		other.now = tokens.now

		_, err := other.Verify(raw)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		later := NewTokens("test-secret", time.Hour)
		later.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }

		_, err := later.Verify(raw)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		_, err := tokens.Issue(Identity{Account: "acct-1", Role: "owner"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}
