package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lensflow/internal/deadline"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
	"github.com/MrJamesThe3rd/lensflow/internal/storage/local"
)

var fixedNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openLedger(t *testing.T) (*ledger.Ledger, *local.Store) {
	t.Helper()

	store, err := local.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	l, err := ledger.Open(context.Background(), store, ledger.WithClock(clock), ledger.WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	return l, store
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mustProject(t *testing.T, l *ledger.Ledger, id string, budget int64) model.Project {
	t.Helper()

	p, err := l.CreateProject(context.Background(), ledger.ProjectParams{
		ID:       id,
		Title:    "Project " + id,
		Budget:   dec(budget),
		Deadline: fixedNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	return p
}

// storedProject reads the project back from storage rather than the ledger.
func storedProject(t *testing.T, s storage.Storage, id string) model.Project {
	t.Helper()

	projects, err := s.Projects(context.Background())
	require.NoError(t, err)

	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}

	t.Fatalf("project %s not stored", id)

	return model.Project{}
}

func TestLedger_CreateProject(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name    string
		params  ledger.ProjectParams
		wantErr error
	}

	tests := []testCase{
		{
			name:    "MissingDeadline",
			params:  ledger.ProjectParams{Title: "Wedding", Budget: dec(100)},
			wantErr: model.ErrValidation,
		},
		{
			name:    "MissingTitle",
			params:  ledger.ProjectParams{Title: "  ", Deadline: fixedNow},
			wantErr: model.ErrValidation,
		},
		{
			name:    "NegativeBudget",
			params:  ledger.ProjectParams{Title: "Wedding", Budget: dec(-1), Deadline: fixedNow},
			wantErr: model.ErrValidation,
		},
		{
			name:   "Success",
			params: ledger.ProjectParams{Title: "Wedding", Budget: dec(1000), Deadline: fixedNow.AddDate(0, 0, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store := openLedger(t)

			p, err := l.CreateProject(ctx, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, l.Projects())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusUpcoming, p.Status)
			assert.Equal(t, model.ServicePhotography, p.Type)
			assert.True(t, p.StartDate.Equal(model.Day(fixedNow)))

			stored := storedProject(t, store, p.ID)
			assert.Equal(t, "Wedding", stored.Title)
			assert.True(t, dec(1000).Equal(stored.Budget))
			assert.True(t, stored.PaidAmount.IsZero())
			assert.True(t, p.Deadline.Equal(stored.Deadline))
		})
	}
}

func TestLedger_CreateProjectWithInitialPayment(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)

	p, err := l.CreateProject(ctx, ledger.ProjectParams{
		ID:          "P",
		Title:       "Wedding",
		Budget:      dec(1000),
		InitialPaid: dec(250),
		Deadline:    fixedNow.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	assert.True(t, dec(250).Equal(p.PaidAmount))

	txs, err := store.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, ledger.InitialPaymentID("P"), txs[0].ID)
	assert.Equal(t, model.TypeIncome, txs[0].Type)
	assert.Equal(t, ledger.InitialPaymentCategory, txs[0].Category)
	assert.Equal(t, "P", txs[0].ProjectID)

	// Deleting the upfront payment reverses it like any other income.
	require.NoError(t, l.DeleteTransaction(ctx, txs[0].ID))
	assert.True(t, storedProject(t, store, "P").PaidAmount.IsZero())
}

func TestLedger_IncomeThenExpenseEdit(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)
	mustProject(t, l, "P", 1000)

	tx, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(500), ProjectID: "P"})
	require.NoError(t, err)
	assert.True(t, dec(500).Equal(storedProject(t, store, "P").PaidAmount))

	_, err = l.UpdateTransaction(ctx, tx.ID, ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(200), ProjectID: "P"})
	require.NoError(t, err)

	got := storedProject(t, store, "P")
	assert.True(t, got.PaidAmount.IsZero())
	assert.True(t, dec(800).Equal(got.Budget))

	inMemory, ok := l.Project("P")
	require.True(t, ok)
	assert.True(t, got.Budget.Equal(inMemory.Budget))

	edited, ok := l.Transaction(tx.ID)
	require.True(t, ok)
	assert.True(t, tx.Date.Equal(edited.Date), "date is frozen")
}

func TestLedger_AddDeleteIsInverse(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)
	mustProject(t, l, "P", 1000)

	steps := []ledger.TransactionParams{
		{Type: model.TypeIncome, Amount: decimal.RequireFromString("120.25"), ProjectID: "P"},
		{Type: model.TypeExpense, Amount: dec(75), ProjectID: "P"},
		{Type: model.TypeIncome, Amount: dec(300), ProjectID: "P"},
		{Type: model.TypeExpense, Amount: decimal.RequireFromString("1500.5"), ProjectID: "P"},
		{Type: model.TypeIncome, Amount: dec(40)},
	}

	var ids []string

	for _, params := range steps {
		tx, err := l.AddTransaction(ctx, params)
		require.NoError(t, err)

		ids = append(ids, tx.ID)
	}

	mid := storedProject(t, store, "P")
	assert.True(t, decimal.RequireFromString("420.25").Equal(mid.PaidAmount))
	assert.True(t, decimal.RequireFromString("-575.5").Equal(mid.Budget), "budget has no floor")

	for i := len(ids) - 1; i >= 0; i-- {
		require.NoError(t, l.DeleteTransaction(ctx, ids[i]))
	}

	got := storedProject(t, store, "P")
	assert.True(t, got.PaidAmount.IsZero())
	assert.True(t, dec(1000).Equal(got.Budget))
}

func TestLedger_DeleteClampsPaidAmount(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)
	mustProject(t, l, "P", 1000)

	tx, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(50), ProjectID: "P"})
	require.NoError(t, err)

	corrected := dec(20)
	require.NoError(t, store.UpdateProject(ctx, "P", storage.ProjectPatch{PaidAmount: &corrected}))
	require.NoError(t, l.Reload(ctx))

	require.NoError(t, l.DeleteTransaction(ctx, tx.ID))
	assert.True(t, storedProject(t, store, "P").PaidAmount.IsZero())
}

func TestLedger_EditEquivalentToDeleteThenAdd(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name   string
		before ledger.TransactionParams
		after  ledger.TransactionParams
	}

	tests := []testCase{
		{
			name:   "SameProjectTypeChange",
			before: ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(300), ProjectID: "A"},
			after:  ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(120), ProjectID: "A"},
		},
		{
			name:   "LinkTargetChanges",
			before: ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(300), ProjectID: "A"},
			after:  ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(120), ProjectID: "B"},
		},
		{
			name:   "Unlinked",
			before: ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(90), ProjectID: "B"},
			after:  ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(90)},
		},
		{
			name:   "Linked",
			before: ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(10)},
			after:  ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(700), ProjectID: "A"},
		},
	}

	setup := func(t *testing.T) (*ledger.Ledger, *local.Store) {
		l, store := openLedger(t)
		mustProject(t, l, "A", 1000)
		mustProject(t, l, "B", 400)

		_, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(100), ProjectID: "A"})
		require.NoError(t, err)

		return l, store
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited, editedStore := setup(t)
			tx, err := edited.AddTransaction(ctx, tt.before)
			require.NoError(t, err)
			_, err = edited.UpdateTransaction(ctx, tx.ID, tt.after)
			require.NoError(t, err)

			replayed, replayedStore := setup(t)
			tx, err = replayed.AddTransaction(ctx, tt.before)
			require.NoError(t, err)
			require.NoError(t, replayed.DeleteTransaction(ctx, tx.ID))
			_, err = replayed.AddTransaction(ctx, tt.after)
			require.NoError(t, err)

			for _, id := range []string{"A", "B"} {
				want := storedProject(t, replayedStore, id)
				got := storedProject(t, editedStore, id)

				assert.True(t, want.PaidAmount.Equal(got.PaidAmount), "project %s paid: want %s got %s", id, want.PaidAmount, got.PaidAmount)
				assert.True(t, want.Budget.Equal(got.Budget), "project %s budget: want %s got %s", id, want.Budget, got.Budget)
			}
		})
	}
}

func TestLedger_AddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)
	mustProject(t, l, "P", 100)

	_, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: decimal.Zero})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: "refund", Amount: dec(5)})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(5), ProjectID: "ghost"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	tx, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(5)})
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultCategory, tx.Category)

	assert.ErrorIs(t, l.DeleteTransaction(ctx, "ghost"), model.ErrNotFound)
}

func TestLedger_DeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)

	_, err := l.CreateProject(ctx, ledger.ProjectParams{
		ID:          "P",
		Title:       "Late",
		Budget:      dec(1000),
		InitialPaid: dec(100),
		Deadline:    fixedNow.AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	mustProject(t, l, "Q", 500)

	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(30), ProjectID: "P"})
	require.NoError(t, err)
	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(70), ProjectID: "Q"})
	require.NoError(t, err)

	_, err = l.ScanDeadlines(ctx, deadline.NewScanner(store, deadline.WithClock(clock)))
	require.NoError(t, err)
	require.NotEmpty(t, l.Notifications())

	require.NoError(t, l.DeleteProject(ctx, "P"))

	projects, err := store.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Q", projects[0].ID)
	assert.True(t, dec(70).Equal(projects[0].PaidAmount))

	txs, err := store.Transactions(ctx)
	require.NoError(t, err)

	for _, tx := range txs {
		assert.NotEqual(t, "P", tx.ProjectID)
	}

	notifications, err := store.Notifications(ctx)
	require.NoError(t, err)

	for _, n := range notifications {
		assert.NotEqual(t, "P", n.ProjectID)
	}

	assert.ErrorIs(t, l.DeleteProject(ctx, "P"), model.ErrNotFound)
}

func TestLedger_SetProjectStatus(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)
	mustProject(t, l, "P", 100)

	_, err := l.SetProjectStatus(ctx, "P", model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, storedProject(t, store, "P").Status)

	_, err = l.SetProjectStatus(ctx, "P", model.StatusUpcoming)
	require.NoError(t, err, "manual transitions may go backwards")

	_, err = l.SetProjectStatus(ctx, "P", "archived")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = l.SetProjectStatus(ctx, "ghost", model.StatusDelivered)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLedger_Stats(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)
	mustProject(t, l, "P", 1000)

	_, err := l.SetProjectStatus(ctx, "P", model.StatusInProgress)
	require.NoError(t, err)

	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(500), ProjectID: "P"})
	require.NoError(t, err)
	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeExpense, Amount: dec(120)})
	require.NoError(t, err)

	s := l.Stats()
	assert.True(t, dec(500).Equal(s.TotalIncome))
	assert.True(t, dec(120).Equal(s.TotalExpenses))
	assert.True(t, dec(380).Equal(s.NetProfit))
	assert.Equal(t, 1, s.ActiveCount)
}

func TestLedger_TransportFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	errDown := fmt.Errorf("write: %w", model.ErrTransport)

	project := model.Project{
		ID:         "P",
		Title:      "Wedding",
		Status:     model.StatusInProgress,
		Budget:     dec(1000),
		PaidAmount: dec(100),
		Deadline:   fixedNow.AddDate(0, 0, 20),
	}
	existing := model.Transaction{ID: "T", Type: model.TypeIncome, Amount: dec(100), ProjectID: "P", Date: model.Day(fixedNow)}

	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		run       func(l *ledger.Ledger) error
	}

	paidPatch := func(paid int64) gomock.Matcher {
		return balanceIs{budget: dec(1000), paid: dec(paid)}
	}

	tests := []testCase{
		{
			name: "AddTransactionBalanceWriteFails",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().UpdateProject(gomock.Any(), "P", gomock.Any()).Return(errDown)
			},
			run: func(l *ledger.Ledger) error {
				_, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(50), ProjectID: "P"})
				return err
			},
		},
		{
			name: "AddTransactionInsertFailsRestoresBalance",
			setupMock: func(m *ledger.MockRepository) {
				gomock.InOrder(
					m.EXPECT().UpdateProject(gomock.Any(), "P", paidPatch(150)).Return(nil),
					m.EXPECT().AddTransaction(gomock.Any(), gomock.Any()).Return(errDown),
					m.EXPECT().UpdateProject(gomock.Any(), "P", paidPatch(100)).Return(nil),
				)
			},
			run: func(l *ledger.Ledger) error {
				_, err := l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: dec(50), ProjectID: "P"})
				return err
			},
		},
		{
			name: "DeleteTransactionFailsRestoresBalance",
			setupMock: func(m *ledger.MockRepository) {
				gomock.InOrder(
					m.EXPECT().UpdateProject(gomock.Any(), "P", paidPatch(0)).Return(nil),
					m.EXPECT().DeleteTransaction(gomock.Any(), "T").Return(errDown),
					m.EXPECT().UpdateProject(gomock.Any(), "P", paidPatch(100)).Return(errors.New("still down")),
				)
			},
			run: func(l *ledger.Ledger) error {
				return l.DeleteTransaction(ctx, "T")
			},
		},
		{
			name: "UpdateTransactionFails",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().UpdateTransaction(gomock.Any(), "T", gomock.Any()).Return(errDown)
			},
			run: func(l *ledger.Ledger) error {
				// Only the description changes, so no balance write is expected.
				_, err := l.UpdateTransaction(ctx, "T", ledger.TransactionParams{
					Type: model.TypeIncome, Amount: dec(100), ProjectID: "P", Description: "renamed",
				})
				return err
			},
		},
		{
			name: "SetStatusFails",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().UpdateProject(gomock.Any(), "P", gomock.Any()).Return(errDown)
			},
			run: func(l *ledger.Ledger) error {
				_, err := l.SetProjectStatus(ctx, "P", model.StatusDelivered)
				return err
			},
		},
		{
			name: "CascadeFailsOnFirstStep",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().DeleteTransaction(gomock.Any(), "T").Return(errDown)
			},
			run: func(l *ledger.Ledger) error {
				return l.DeleteProject(ctx, "P")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			repo.EXPECT().Projects(gomock.Any()).Return([]model.Project{project}, nil)
			repo.EXPECT().Transactions(gomock.Any()).Return([]model.Transaction{existing}, nil)
			repo.EXPECT().Notifications(gomock.Any()).Return(nil, nil)

			l, err := ledger.Open(ctx, repo, ledger.WithClock(clock))
			require.NoError(t, err)

			tt.setupMock(repo)

			err = tt.run(l)
			require.ErrorIs(t, err, model.ErrTransport)

			assert.Equal(t, []model.Project{project}, l.Projects())
			assert.Equal(t, []model.Transaction{existing}, l.Transactions())
		})
	}
}

func TestLedger_DeleteProjectRemovesStoredNotifications(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The loaded window holds none of P's notifications; storage still may.
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Projects(gomock.Any()).Return([]model.Project{{ID: "P", Title: "Promo", Status: model.StatusUpcoming, Budget: dec(100), Deadline: fixedNow.AddDate(0, 0, 20)}}, nil)
	repo.EXPECT().Transactions(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Notifications(gomock.Any()).Return([]model.Notification{{ID: "warn:Q", ProjectID: "Q"}}, nil)

	l, err := ledger.Open(ctx, repo, ledger.WithClock(clock))
	require.NoError(t, err)

	gomock.InOrder(
		repo.EXPECT().DeleteProjectNotifications(gomock.Any(), "P").Return(nil),
		repo.EXPECT().DeleteProject(gomock.Any(), "P").Return(nil),
	)

	require.NoError(t, l.DeleteProject(ctx, "P"))
	assert.Empty(t, l.Projects())
	assert.Len(t, l.Notifications(), 1)
}

// balanceIs matches a storage.ProjectPatch that writes exactly the given
// budget and paid amount.
type balanceIs struct {
	budget decimal.Decimal
	paid   decimal.Decimal
}

func (m balanceIs) Matches(x any) bool {
	patch, ok := x.(storage.ProjectPatch)
	if !ok || patch.Budget == nil || patch.PaidAmount == nil {
		return false
	}

	return patch.Budget.Equal(m.budget) && patch.PaidAmount.Equal(m.paid)
}

func (m balanceIs) String() string {
	return fmt.Sprintf("balance patch budget=%s paid=%s", m.budget, m.paid)
}

func TestLedger_RecordsOperations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	store, err := local.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	l, err := ledger.Open(ctx, store, ledger.WithClock(clock), ledger.WithMetrics(metrics.New(reg)))
	require.NoError(t, err)

	_, err = l.CreateProject(ctx, ledger.ProjectParams{Title: "Shoot", Budget: dec(100), Deadline: fixedNow})
	require.NoError(t, err)

	_, err = l.AddTransaction(ctx, ledger.TransactionParams{Type: model.TypeIncome, Amount: decimal.Zero})
	require.ErrorIs(t, err, model.ErrValidation)

	expected := `
# HELP lensflow_ledger_operations_total Ledger operations by name and outcome
# TYPE lensflow_ledger_operations_total counter
lensflow_ledger_operations_total{op="add_transaction",outcome="error"} 1
lensflow_ledger_operations_total{op="create_project",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lensflow_ledger_operations_total"))
}
