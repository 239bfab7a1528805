package view

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()

	var cfg config.Config
	cfg.Storage.Mode = config.StorageLocal
	cfg.Storage.LocalPath = filepath.Join(t.TempDir(), "lensflow.db")
	cfg.Deadline.WindowDays = 3

	m, err := session.NewManager(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	s, err := m.Start(context.Background(), "studio")
	require.NoError(t, err)

	return s
}

func testGuard(t *testing.T) *auth.Guard {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	return auth.NewGuard("admin", hash)
}

var adminLogin = credential{Username: "admin", Password: "s3cret"}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestProjectsModel_CreateAndFilter(t *testing.T) {
	s := testSession(t)
	m := NewProjectsModel(s, testGuard(t))

	msg := m.createCmd(projectDraft{
		Title:       "Wedding",
		Client:      "Sara",
		Type:        model.ServicePhotography,
		Budget:      "١٠٠٠",
		InitialPaid: "250",
		Deadline:    "2030-01-02",
	})()

	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, "Created Wedding", saved.status)

	next, _ := m.Update(m.loadCmd()())
	m = next.(ProjectsModel)

	require.Len(t, m.projects, 1)
	assert.True(t, decimal.NewFromInt(750).Equal(m.projects[0].Remaining()))

	next, _ = m.Update(key("s"))
	m = next.(ProjectsModel)
	assert.Equal(t, model.StatusUpcoming, m.statusFilter())
	assert.Len(t, m.projects, 1)

	next, _ = m.Update(key("s"))
	m = next.(ProjectsModel)
	assert.Equal(t, model.StatusInProgress, m.statusFilter())
	assert.Empty(t, m.projects)
}

func TestProjectsModel_CreateWithoutDeadline(t *testing.T) {
	m := NewProjectsModel(testSession(t), testGuard(t))

	saved := m.createCmd(projectDraft{Title: "Promo"})().(savedMsg)
	assert.ErrorIs(t, saved.err, model.ErrValidation)
}

func TestTransactionsModel_TypeFilter(t *testing.T) {
	m := NewTransactionsModel(testSession(t), testGuard(t))

	for _, d := range []txDraft{
		{Type: model.TypeIncome, Amount: "100"},
		{Type: model.TypeExpense, Amount: "40", Category: "مواصلات"},
	} {
		saved := m.saveCmd(d)().(savedMsg)
		require.NoError(t, saved.err)
	}

	saved := m.saveCmd(txDraft{Type: model.TypeExpense, Amount: "0"})().(savedMsg)
	assert.ErrorIs(t, saved.err, model.ErrValidation)

	next, _ := m.Update(m.loadCmd()())
	m = next.(TransactionsModel)
	assert.Len(t, m.list.Items(), 2)

	next, _ = m.Update(key("t"))
	m = next.(TransactionsModel)
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, model.TypeIncome, m.list.Items()[0].(txItem).tx.Type)
}

func TestAssetDraft_Params(t *testing.T) {
	tests := []struct {
		name    string
		draft   assetDraft
		wantQty int
		wantErr bool
	}{
		{name: "blank quantity", draft: assetDraft{Name: "Tripod"}, wantQty: 0},
		{name: "quantity", draft: assetDraft{Name: "Battery", Quantity: " 3 "}, wantQty: 3},
		{name: "bad quantity", draft: assetDraft{Name: "Battery", Quantity: "three"}, wantErr: true},
		{name: "bad date", draft: assetDraft{Name: "Lens", Purchased: "02/01/2024"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.draft.params()
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, p.Quantity)
		})
	}
}

func TestAssetsModel_Seed(t *testing.T) {
	m := NewAssetsModel(testSession(t), testGuard(t))

	saved := m.seedCmd()().(savedMsg)
	require.NoError(t, saved.err)

	next, _ := m.Update(m.loadCmd()())
	m = next.(AssetsModel)
	// The list repeats two names; repeats are skipped on import.
	assert.Len(t, m.assets, 55)

	next, _ = m.Update(key("k"))
	m = next.(AssetsModel)
	assert.Equal(t, model.ConditionGood, m.query().Condition)

	for _, a := range m.assets {
		assert.Equal(t, model.ConditionGood, a.Condition)
	}
}

func TestDelete_RequiresAdminCredential(t *testing.T) {
	s := testSession(t)
	guard := testGuard(t)

	projects := NewProjectsModel(s, guard)
	require.NoError(t, projects.createCmd(projectDraft{
		Title:       "Wedding",
		Budget:      "1000",
		InitialPaid: "100",
		Deadline:    "2030-01-02",
	})().(savedMsg).err)

	ps := s.Ledger.Projects()
	require.Len(t, ps, 1)

	a, err := s.Inventory.Create(context.Background(), inventory.AssetParams{Name: "FX3", Category: "Camera"})
	require.NoError(t, err)

	assets := func(t *testing.T) int {
		all, err := s.Inventory.List(context.Background())
		require.NoError(t, err)

		return len(all)
	}

	tests := []struct {
		name  string
		del   func(credential) tea.Cmd
		count func(t *testing.T) int
	}{
		{
			name:  "transaction",
			del:   func(c credential) tea.Cmd { return NewTransactionsModel(s, guard).deleteCmd(s.Ledger.Transactions()[0].ID, c) },
			count: func(*testing.T) int { return len(s.Ledger.Transactions()) },
		},
		{
			name:  "project",
			del:   func(c credential) tea.Cmd { return projects.deleteCmd(ps[0].ID, c) },
			count: func(*testing.T) int { return len(s.Ledger.Projects()) },
		},
		{
			name:  "asset",
			del:   func(c credential) tea.Cmd { return NewAssetsModel(s, guard).deleteCmd(a.ID, c) },
			count: assets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, 1, tt.count(t))

			for _, c := range []credential{{}, {Username: "admin", Password: "guess"}, {Username: "staff", Password: "s3cret"}} {
				saved := tt.del(c)().(savedMsg)
				assert.ErrorIs(t, saved.err, model.ErrUnauthorized)
				assert.Equal(t, 1, tt.count(t))
			}

			saved := tt.del(adminLogin)().(savedMsg)
			require.NoError(t, saved.err)
			assert.Equal(t, 0, tt.count(t))
		})
	}
}
