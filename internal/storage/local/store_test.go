package local_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
	"github.com/MrJamesThe3rd/lensflow/internal/storage/local"
)

func openStore(t *testing.T) *local.Store {
	t.Helper()

	s, err := local.Open(filepath.Join(t.TempDir(), "lensflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sampleProject(id string) model.Project {
	return model.Project{
		ID:         id,
		Title:      "زفاف",
		Client:     "Sara",
		Type:       model.ServicePhotography,
		Status:     model.StatusUpcoming,
		Budget:     decimal.NewFromInt(500),
		PaidAmount: decimal.NewFromInt(200),
		StartDate:  day(2025, 1, 1),
		Deadline:   day(2025, 1, 10),
	}
}

func TestStore_Projects(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	p := sampleProject("p1")
	require.NoError(t, s.AddProject(ctx, p))

	err := s.AddProject(ctx, p)
	assert.ErrorIs(t, err, model.ErrDuplicateKey)

	status := model.StatusOverdue
	paid := decimal.RequireFromString("350.5")
	require.NoError(t, s.UpdateProject(ctx, "p1", storage.ProjectPatch{Status: &status, PaidAmount: &paid}))

	got, err := s.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, model.StatusOverdue, got[0].Status)
	assert.True(t, paid.Equal(got[0].PaidAmount))
	assert.True(t, p.Budget.Equal(got[0].Budget))
	assert.Equal(t, "زفاف", got[0].Title)
	assert.True(t, got[0].Deadline.Equal(p.Deadline))

	err = s.UpdateProject(ctx, "missing", storage.ProjectPatch{Status: &status})
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = s.UpdateProject(ctx, "missing", storage.ProjectPatch{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.DeleteProject(ctx, "p1"))
	require.NoError(t, s.DeleteProject(ctx, "p1"))

	got, err = s.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	tx := model.Transaction{
		ID:        "t1",
		Type:      model.TypeIncome,
		Amount:    decimal.NewFromInt(100),
		Category:  "دفعات مشاريع",
		Date:      day(2025, 2, 3),
		ProjectID: "p1",
	}
	require.NoError(t, s.AddTransaction(ctx, tx))
	assert.ErrorIs(t, s.AddTransaction(ctx, tx), model.ErrDuplicateKey)

	unlink := ""
	amount := decimal.NewFromInt(80)
	require.NoError(t, s.UpdateTransaction(ctx, "t1", storage.TransactionPatch{Amount: &amount, ProjectID: &unlink}))

	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, amount.Equal(got[0].Amount))
	assert.False(t, got[0].Linked())
	assert.True(t, got[0].Date.Equal(tx.Date))
}

func TestStore_Notifications(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	n := model.Notification{
		ID:        model.NotificationID(model.KindOverdue, "p1"),
		Kind:      model.KindOverdue,
		Title:     "مشروع متأخر",
		Message:   "زفاف",
		Date:      now,
		ProjectID: "p1",
	}
	require.NoError(t, s.AddNotification(ctx, n))
	require.NoError(t, s.MarkAsRead(ctx, n.ID))

	n.Message = "changed"
	require.NoError(t, s.AddNotification(ctx, n), "re-adding an existing id is a no-op")

	got, err := s.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, got[0].IsRead)
	assert.Equal(t, "زفاف", got[0].Message)
	assert.True(t, got[0].Date.Equal(now))

	assert.ErrorIs(t, s.MarkAsRead(ctx, "nope"), model.ErrNotFound)
}

func TestStore_NotificationsNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	total := storage.NotificationLimit + 5

	for i := range total {
		require.NoError(t, s.AddNotification(ctx, model.Notification{
			ID:      fmt.Sprintf("n%03d", i),
			Title:   "t",
			Message: "m",
			Date:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, got, storage.NotificationLimit)

	assert.Equal(t, fmt.Sprintf("n%03d", total-1), got[0].ID)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date))
	}
}

func TestStore_DeleteProjectNotificationsBeyondLimit(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	total := storage.NotificationLimit + 20

	for i := range total {
		require.NoError(t, s.AddNotification(ctx, model.Notification{
			ID:        fmt.Sprintf("p1-%03d", i),
			Title:     "t",
			Message:   "m",
			Date:      base.Add(time.Duration(i) * time.Minute),
			ProjectID: "p1",
		}))
	}

	require.NoError(t, s.AddNotification(ctx, model.Notification{ID: "p2", Title: "t", Message: "m", Date: base, ProjectID: "p2"}))

	require.NoError(t, s.DeleteProjectNotifications(ctx, "p1"))

	got, err := s.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestStore_AssetsAndClear(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a := model.Asset{
		ID:        "a1",
		Name:      "Canon R5",
		Category:  "كاميرات",
		Quantity:  2,
		Condition: model.ConditionGood,
		Value:     decimal.NewFromInt(3000),
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.AddAsset(ctx, a))
	assert.ErrorIs(t, s.AddAsset(ctx, a), model.ErrDuplicateKey)

	cond := model.ConditionMissing
	require.NoError(t, s.UpdateAsset(ctx, "a1", storage.AssetPatch{Condition: &cond}))

	a.ID = "a2"
	require.NoError(t, s.PutAsset(ctx, a))
	require.NoError(t, s.PutAsset(ctx, a))

	got, err := s.Assets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, s.AddProject(ctx, sampleProject("p1")))
	require.NoError(t, s.ClearAllData(ctx))

	assets, err := s.Assets(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
