package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// Credential is the admin login a caller repeats before a destructive request.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ConfirmAdmin re-checks the admin credential carried in the request body,
// whatever role the token grants. A missing body counts as an empty credential.
func ConfirmAdmin(guard *auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var c Credential
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
				respond.Error(w, fmt.Errorf("decode credential: %w: %w", model.ErrValidation, err))
				return
			}

			if err := guard.Check(c.Username, c.Password); err != nil {
				respond.Error(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
