package remote

import (
	"context"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

func (s *Store) Projects(ctx context.Context) ([]model.Project, error) {
	return list[model.Project](ctx, s, "listing projects", collProjects, 0)
}

func (s *Store) AddProject(ctx context.Context, p model.Project) error {
	ok, err := s.insert(ctx, "adding project", collProjects, p.ID, p.StartDate, p)
	return duplicate("adding project", p.ID, ok, err)
}

func (s *Store) PutProject(ctx context.Context, p model.Project) error {
	return s.put(ctx, "putting project", collProjects, p.ID, p.StartDate, p)
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch storage.ProjectPatch) error {
	fields := map[string]any{}

	if patch.Title != nil {
		fields["title"] = *patch.Title
	}

	if patch.Client != nil {
		fields["client"] = *patch.Client
	}

	if patch.Type != nil {
		fields["type"] = *patch.Type
	}

	if patch.Status != nil {
		fields["status"] = *patch.Status
	}

	if patch.Budget != nil {
		fields["budget"] = *patch.Budget
	}

	if patch.PaidAmount != nil {
		fields["paidAmount"] = *patch.PaidAmount
	}

	if patch.Deadline != nil {
		fields["deadline"] = *patch.Deadline
	}

	return s.merge(ctx, "updating project", collProjects, id, fields)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.remove(ctx, "deleting project", collProjects, id)
}

func (s *Store) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return list[model.Transaction](ctx, s, "listing transactions", collTransactions, 0)
}

func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) error {
	ok, err := s.insert(ctx, "adding transaction", collTransactions, t.ID, t.Date, t)
	return duplicate("adding transaction", t.ID, ok, err)
}

func (s *Store) PutTransaction(ctx context.Context, t model.Transaction) error {
	return s.put(ctx, "putting transaction", collTransactions, t.ID, t.Date, t)
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, patch storage.TransactionPatch) error {
	fields := map[string]any{}

	if patch.Type != nil {
		fields["type"] = *patch.Type
	}

	if patch.Amount != nil {
		fields["amount"] = *patch.Amount
	}

	if patch.Category != nil {
		fields["category"] = *patch.Category
	}

	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	if patch.ProjectID != nil {
		fields["projectId"] = *patch.ProjectID
	}

	return s.merge(ctx, "updating transaction", collTransactions, id, fields)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.remove(ctx, "deleting transaction", collTransactions, id)
}

// Notifications returns the most recent notifications, newest first.
func (s *Store) Notifications(ctx context.Context) ([]model.Notification, error) {
	return list[model.Notification](ctx, s, "listing notifications", collNotifications, storage.NotificationLimit)
}

// AddNotification is insert-if-absent; an existing document is left as is.
func (s *Store) AddNotification(ctx context.Context, n model.Notification) error {
	_, err := s.insert(ctx, "adding notification", collNotifications, n.ID, n.Date, n)
	return err
}

func (s *Store) PutNotification(ctx context.Context, n model.Notification) error {
	return s.put(ctx, "putting notification", collNotifications, n.ID, n.Date, n)
}

func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	return s.merge(ctx, "marking notification read", collNotifications, id, map[string]any{"isRead": true})
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	return s.remove(ctx, "deleting notification", collNotifications, id)
}

func (s *Store) DeleteProjectNotifications(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE account_id = $1 AND collection = $2 AND body->>'projectId' = $3`,
		s.account, collNotifications, projectID)
	if err != nil {
		return storage.Transport("deleting project notifications", err)
	}

	return nil
}

func (s *Store) Assets(ctx context.Context) ([]model.Asset, error) {
	return list[model.Asset](ctx, s, "listing assets", collAssets, 0)
}

func (s *Store) AddAsset(ctx context.Context, a model.Asset) error {
	ok, err := s.insert(ctx, "adding asset", collAssets, a.ID, a.CreatedAt, a)
	return duplicate("adding asset", a.ID, ok, err)
}

func (s *Store) PutAsset(ctx context.Context, a model.Asset) error {
	return s.put(ctx, "putting asset", collAssets, a.ID, a.CreatedAt, a)
}

func (s *Store) UpdateAsset(ctx context.Context, id string, patch storage.AssetPatch) error {
	fields := map[string]any{}

	if patch.Name != nil {
		fields["name"] = *patch.Name
	}

	if patch.Category != nil {
		fields["category"] = *patch.Category
	}

	if patch.Quantity != nil {
		fields["quantity"] = *patch.Quantity
	}

	if patch.Brand != nil {
		fields["brand"] = *patch.Brand
	}

	if patch.Condition != nil {
		fields["condition"] = *patch.Condition
	}

	if patch.Value != nil {
		fields["value"] = *patch.Value
	}

	if patch.PurchaseDate != nil {
		fields["purchaseDate"] = *patch.PurchaseDate
	}

	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	return s.merge(ctx, "updating asset", collAssets, id, fields)
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	return s.remove(ctx, "deleting asset", collAssets, id)
}
