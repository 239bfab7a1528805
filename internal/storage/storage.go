// Package storage defines the persistence contract shared by the local and
// remote backends.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// NotificationLimit caps Notifications to the most recent entries by date.
const NotificationLimit = 500

// Storage is implemented identically by every backend. Adds reject existing
// ids with model.ErrDuplicateKey, except AddNotification which is
// insert-if-absent. Deletes are idempotent. Every backend failure satisfies
// errors.Is(err, model.ErrTransport).
//
//go:generate mockgen -source=storage.go -destination=storage_mock.go -package=storage
type Storage interface {
	Projects(ctx context.Context) ([]model.Project, error)
	AddProject(ctx context.Context, p model.Project) error
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) error
	DeleteProject(ctx context.Context, id string) error

	Transactions(ctx context.Context) ([]model.Transaction, error)
	AddTransaction(ctx context.Context, t model.Transaction) error
	UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) error
	DeleteTransaction(ctx context.Context, id string) error

	Notifications(ctx context.Context) ([]model.Notification, error)
	AddNotification(ctx context.Context, n model.Notification) error
	MarkAsRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	// DeleteProjectNotifications removes every stored notification of the
	// project, including those beyond NotificationLimit.
	DeleteProjectNotifications(ctx context.Context, projectID string) error

	Assets(ctx context.Context) ([]model.Asset, error)
	AddAsset(ctx context.Context, a model.Asset) error
	UpdateAsset(ctx context.Context, id string, patch AssetPatch) error
	DeleteAsset(ctx context.Context, id string) error

	// Put* upsert by id. Only backup import uses them.
	PutProject(ctx context.Context, p model.Project) error
	PutTransaction(ctx context.Context, t model.Transaction) error
	PutNotification(ctx context.Context, n model.Notification) error
	PutAsset(ctx context.Context, a model.Asset) error

	ClearAllData(ctx context.Context) error
	Close() error
}

// ProjectPatch holds the project fields to merge; nil fields are left untouched.
type ProjectPatch struct {
	Title      *string
	Client     *string
	Type       *model.ServiceType
	Status     *model.Status
	Budget     *decimal.Decimal
	PaidAmount *decimal.Decimal
	Deadline   *time.Time
}

// TransactionPatch holds the transaction fields to merge. The date cannot be
// changed after creation.
type TransactionPatch struct {
	Type        *model.TransactionType
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	// ProjectID set to a pointer to "" unlinks the transaction.
	ProjectID *string
}

type AssetPatch struct {
	Name         *string
	Category     *string
	Quantity     *int
	Brand        *string
	Condition    *model.Condition
	Value        *decimal.Decimal
	PurchaseDate *time.Time
	Notes        *string
}

// Transport wraps a backend failure so it matches model.ErrTransport.
func Transport(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrTransport, err)
}

// ApplyProject merges patch into p.
func ApplyProject(p model.Project, patch ProjectPatch) model.Project {
	if patch.Title != nil {
		p.Title = *patch.Title
	}

	if patch.Client != nil {
		p.Client = *patch.Client
	}

	if patch.Type != nil {
		p.Type = *patch.Type
	}

	if patch.Status != nil {
		p.Status = *patch.Status
	}

	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}

	if patch.PaidAmount != nil {
		p.PaidAmount = *patch.PaidAmount
	}

	if patch.Deadline != nil {
		p.Deadline = *patch.Deadline
	}

	return p
}

// ApplyTransaction merges patch into t.
func ApplyTransaction(t model.Transaction, patch TransactionPatch) model.Transaction {
	if patch.Type != nil {
		t.Type = *patch.Type
	}

	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}

	if patch.Category != nil {
		t.Category = *patch.Category
	}

	if patch.Description != nil {
		t.Description = *patch.Description
	}

	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}

	return t
}

// ApplyAsset merges patch into a.
func ApplyAsset(a model.Asset, patch AssetPatch) model.Asset {
	if patch.Name != nil {
		a.Name = *patch.Name
	}

	if patch.Category != nil {
		a.Category = *patch.Category
	}

	if patch.Quantity != nil {
		a.Quantity = *patch.Quantity
	}

	if patch.Brand != nil {
		a.Brand = *patch.Brand
	}

	if patch.Condition != nil {
		a.Condition = *patch.Condition
	}

	if patch.Value != nil {
		a.Value = *patch.Value
	}

	if patch.PurchaseDate != nil {
		a.PurchaseDate = *patch.PurchaseDate
	}

	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}

	return a
}
