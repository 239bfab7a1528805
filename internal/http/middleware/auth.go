// Package middleware resolves the caller's identity and session for every
// API request.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	sessionKey
)

// Sessions hands out the session of an account.
type Sessions interface {
	Start(ctx context.Context, account string) (*session.Session, error)
}

// Authenticate verifies the bearer token and attaches the caller's identity
// and session to the request context. The session is locked until the
// request completes and its ledger is refreshed from storage first.
func Authenticate(tokens *auth.Tokens, sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				respond.Error(w, fmt.Errorf("missing bearer token: %w", model.ErrUnauthorized))
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				respond.Error(w, err)
				return
			}

			s, err := sessions.Start(r.Context(), id.Account)
			if err != nil {
				respond.Error(w, err)
				return
			}

			s.Lock()
			defer s.Unlock()

			if err := s.Refresh(r.Context()); err != nil {
				respond.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = context.WithValue(ctx, sessionKey, s)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token carries the staff role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Identity(r.Context()).Role != auth.RoleAdmin {
			respond.Error(w, fmt.Errorf("admin role required: %w", respond.ErrForbidden))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func Identity(ctx context.Context) auth.Identity {
	id, _ := ctx.Value(identityKey).(auth.Identity)
	return id
}

// Session returns the session attached by Authenticate.
func Session(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
