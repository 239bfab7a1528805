package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	lfhttp "github.com/MrJamesThe3rd/lensflow/internal/http"
	"github.com/MrJamesThe3rd/lensflow/internal/http/asset"
	"github.com/MrJamesThe3rd/lensflow/internal/http/notification"
	"github.com/MrJamesThe3rd/lensflow/internal/http/project"
	"github.com/MrJamesThe3rd/lensflow/internal/http/studio"
	"github.com/MrJamesThe3rd/lensflow/internal/http/token"
	"github.com/MrJamesThe3rd/lensflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

const account = "studio-1"

var adminCredential = map[string]string{"username": "admin", "password": "s3cret"}

type testServer struct {
	*httptest.Server
	tokens *auth.Tokens
	cfg    *config.Config
}

func newServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()

	var cfg config.Config
	cfg.Storage.Mode = config.StorageLocal
	cfg.Storage.LocalPath = filepath.Join(dir, "lensflow.db")
	cfg.Deadline.WindowDays = 3

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sessions, err := session.NewManager(&cfg, session.WithMetrics(m))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	guard := auth.NewGuard("admin", hash)
	tokens := auth.NewTokens("test-secret", time.Hour)
	settingsPath := filepath.Join(dir, "settings.toml")

	router := lfhttp.New(
		lfhttp.Options{
			Tokens:         tokens,
			Sessions:       sessions,
			Metrics:        m,
			Gatherer:       reg,
			AllowedOrigins: []string{"*"},
		},
		token.NewHandler(guard, tokens, account, time.Hour),
		project.NewHandler(guard),
		transaction.NewHandler(guard),
		notification.NewHandler(settingsPath),
		asset.NewHandler(guard),
		studio.NewHandler(guard, settingsPath),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, tokens: tokens, cfg: &cfg}
}

func (s *testServer) token(t *testing.T, role auth.Role) string {
	t.Helper()

	raw, err := s.tokens.Issue(auth.Identity{Account: account, Role: role})
	require.NoError(t, err)

	return raw
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, s.URL+path, r)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

func TestRouter_Token(t *testing.T) {
	srv := newServer(t)

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/token", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/token", "", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok struct {
		Token   string `json:"token"`
		Account string `json:"account"`
	}
	require.NoError(t, json.Unmarshal(body, &tok))
	assert.Equal(t, account, tok.Account)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/projects", tok.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := newServer(t)

	resp, _ := srv.do(t, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/projects", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LedgerFlow(t *testing.T) {
	srv := newServer(t)
	bearer := srv.token(t, auth.RoleStaff)

	deadline := time.Now().AddDate(0, 1, 0).Format(time.DateOnly)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/projects", bearer, map[string]string{
		"id":          "p1",
		"title":       "تصوير منتجات",
		"budget":      "١٠٠٠",
		"initialPaid": "200",
		"deadline":    deadline,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = srv.do(t, http.MethodPost, "/api/v1/transactions", bearer, map[string]string{
		"type":      "expense",
		"amount":    "150.5",
		"category":  "مواصلات",
		"projectId": "p1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var tx struct {
		ID           string `json:"id"`
		Icon         string `json:"icon"`
		ProjectTitle string `json:"projectTitle"`
	}
	require.NoError(t, json.Unmarshal(body, &tx))
	assert.Equal(t, "car", tx.Icon)
	assert.Equal(t, "تصوير منتجات", tx.ProjectTitle)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/projects/p1", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p struct {
		Budget     decimal.Decimal `json:"budget"`
		PaidAmount decimal.Decimal `json:"paidAmount"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, decimal.RequireFromString("849.5").Equal(p.Budget), p.Budget.String())
	assert.True(t, decimal.NewFromInt(200).Equal(p.PaidAmount))

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/transactions", bearer, map[string]string{"type": "income", "amount": "0"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/transactions", bearer, map[string]string{"type": "income", "amount": "5", "projectId": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/projects", bearer, map[string]string{"id": "p1", "title": "again", "deadline": deadline})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/stats", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"totalIncome":"200"`)

	resp, _ = srv.do(t, http.MethodDelete, "/api/v1/projects/p1", bearer, adminCredential)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/transactions", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestRouter_Scan(t *testing.T) {
	srv := newServer(t)
	bearer := srv.token(t, auth.RoleAdmin)

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/projects", bearer, map[string]string{
		"id":       "late",
		"title":    "Late edit",
		"budget":   "300",
		"deadline": time.Now().AddDate(0, 0, -1).Format(time.DateOnly),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/notifications/scan", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Transitioned int `json:"transitioned"`
		Unread       int `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 1, res.Transitioned)
	assert.Equal(t, 2, res.Unread)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/notifications/overdue:late/read", bearer, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/notifications", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 1, res.Unread)
}

func TestRouter_StaffRestrictions(t *testing.T) {
	srv := newServer(t)
	staff := srv.token(t, auth.RoleStaff)
	admin := srv.token(t, auth.RoleAdmin)

	resp, _ := srv.do(t, http.MethodGet, "/api/v1/settings", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st := map[string]any{"studioName": "Noor Studio", "primaryColor": "#112233", "enableNotifications": false}

	resp, _ = srv.do(t, http.MethodPut, "/api/v1/settings", staff, st)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPut, "/api/v1/settings", admin, st)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/settings", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Noor Studio")

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/data/clear", staff, map[string]string{"username": "admin", "password": "s3cret"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/data/clear", admin, map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/data/clear", admin, map[string]string{"username": "admin", "password": "s3cret"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_DeleteRequiresAdminCredential(t *testing.T) {
	srv := newServer(t)
	staff := srv.token(t, auth.RoleStaff)

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/projects", staff, map[string]string{
		"id":          "p1",
		"title":       "Wedding",
		"budget":      "1000",
		"initialPaid": "100",
		"deadline":    time.Now().AddDate(0, 0, 30).Format(time.DateOnly),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/assets", staff, map[string]string{"name": "FX3", "category": "Camera"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var a struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &a))

	tests := []struct {
		name string
		path string
		get  string
	}{
		{name: "transaction", path: "/api/v1/transactions/init:p1", get: "/api/v1/transactions"},
		{name: "project", path: "/api/v1/projects/p1", get: "/api/v1/projects/p1"},
		{name: "asset", path: "/api/v1/assets/" + a.ID, get: "/api/v1/assets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := srv.do(t, http.MethodDelete, tt.path, staff, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, _ = srv.do(t, http.MethodDelete, tt.path, staff, map[string]string{"username": "admin", "password": "guess"})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, _ = srv.do(t, http.MethodDelete, tt.path, staff, map[string]string{"username": "staff", "password": "s3cret"})
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, before := srv.do(t, http.MethodGet, tt.get, staff, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = srv.do(t, http.MethodDelete, tt.path, staff, adminCredential)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp, after := srv.do(t, http.MethodGet, tt.get, staff, nil)
			assert.NotEqual(t, string(before), string(after))
		})
	}

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/projects/p1", staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_WritesFromAnotherProcessAreKept(t *testing.T) {
	srv := newServer(t)
	bearer := srv.token(t, auth.RoleAdmin)

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/projects", bearer, map[string]string{
		"id":       "p1",
		"title":    "Wedding",
		"budget":   "1000",
		"deadline": time.Now().AddDate(0, 1, 0).Format(time.DateOnly),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second manager on the same database file stands in for the TUI.
	other, err := session.NewManager(srv.cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	s, err := other.Start(context.Background(), account)
	require.NoError(t, err)

	_, err = s.Ledger.AddTransaction(context.Background(), ledger.TransactionParams{
		Type:      model.TypeIncome,
		Amount:    decimal.NewFromInt(300),
		ProjectID: "p1",
	})
	require.NoError(t, err)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/transactions", bearer, map[string]string{"type": "income", "amount": "200", "projectId": "p1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/projects/p1", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p struct {
		PaidAmount decimal.Decimal `json:"paidAmount"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, decimal.NewFromInt(500).Equal(p.PaidAmount), p.PaidAmount.String())
}

func TestRouter_BackupAndAssets(t *testing.T) {
	srv := newServer(t)
	admin := srv.token(t, auth.RoleAdmin)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/assets/seed", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), `"added":0`)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/assets?condition=arriving_soon", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Assets []struct {
			Name string `json:"name"`
		} `json:"assets"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.NotEmpty(t, list.Assets)
	assert.Contains(t, list.Categories, "Camera")

	resp, backupDoc := srv.do(t, http.MethodGet, "/api/v1/backup", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "LensFlow_Backup_")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/api/v1/backup", strings.NewReader(string(backupDoc)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+admin)

	r, err := srv.Client().Do(req)
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/backup/archive", admin, nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lensflow_http_requests_total")
}
