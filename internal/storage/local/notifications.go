package local

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

const notificationColumns = `id, kind, title, message, date, is_read, project_id`

func scanNotification(row scanner) (model.Notification, error) {
	var (
		n    model.Notification
		date string
	)

	if err := row.Scan(&n.ID, &n.Kind, &n.Title, &n.Message, &date, &n.IsRead, &n.ProjectID); err != nil {
		return model.Notification{}, err
	}

	var err error
	if n.Date, err = parseStamp(date); err != nil {
		return model.Notification{}, err
	}

	return n, nil
}

func notificationArgs(n model.Notification) []any {
	return []any{n.ID, string(n.Kind), n.Title, n.Message, stamp(n.Date), n.IsRead, n.ProjectID}
}

// Notifications returns the most recent notifications, newest first.
func (s *Store) Notifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+notificationColumns+" FROM notifications ORDER BY date DESC, id LIMIT ?",
		storage.NotificationLimit)
	if err != nil {
		return nil, storage.Transport("listing notifications", err)
	}
	defer rows.Close()

	var notifications []model.Notification

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Transport("listing notifications", err)
	}

	return notifications, nil
}

// AddNotification is insert-if-absent: an existing id keeps its stored row,
// including its read state.
func (s *Store) AddNotification(ctx context.Context, n model.Notification) error {
	_, err := s.insert(ctx, "adding notification",
		"INSERT INTO notifications ("+notificationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		notificationArgs(n)...)

	return err
}

func (s *Store) PutNotification(ctx context.Context, n model.Notification) error {
	return s.exec(ctx, "putting notification",
		"INSERT OR REPLACE INTO notifications ("+notificationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		notificationArgs(n)...)
}

func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	var set setClause
	set.add("is_read", true)

	return s.update(ctx, "marking notification read", "notifications", id, set)
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	return s.exec(ctx, "deleting notification", "DELETE FROM notifications WHERE id = ?", id)
}

func (s *Store) DeleteProjectNotifications(ctx context.Context, projectID string) error {
	return s.exec(ctx, "deleting project notifications", "DELETE FROM notifications WHERE project_id = ?", projectID)
}
