package token

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/http/respond"
)

// Handler exchanges the admin credential for an admin token on account.
type Handler struct {
	guard   *auth.Guard
	tokens  *auth.Tokens
	account string
	ttl     time.Duration
}

func NewHandler(guard *auth.Guard, tokens *auth.Tokens, account string, ttl time.Duration) *Handler {
	return &Handler{
		guard:   guard,
		tokens:  tokens,
		account: account,
		ttl:     ttl,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.issue)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Account   string `json:"account"`
	ExpiresIn int    `json:"expiresIn"`
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.guard.Check(req.Username, req.Password); err != nil {
		respond.Error(w, err)
		return
	}

	raw, err := h.tokens.Issue(auth.Identity{Account: h.account, Role: auth.RoleAdmin})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{
		Token:     raw,
		Account:   h.account,
		ExpiresIn: int(h.ttl.Seconds()),
	})
}
