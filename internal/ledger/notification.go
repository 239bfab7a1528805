package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/MrJamesThe3rd/lensflow/internal/deadline"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// MarkNotificationRead flags a notification as read.
func (l *Ledger) MarkNotificationRead(ctx context.Context, id string) (err error) {
	defer func() { l.metrics.LedgerOp("mark_notification_read", err) }()

	i := slices.IndexFunc(l.state.notifications, func(n model.Notification) bool { return n.ID == id })
	if i < 0 {
		return fmt.Errorf("notification %s: %w", id, model.ErrNotFound)
	}

	if err := l.repo.MarkAsRead(ctx, id); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	next := l.state.clone()
	next.notifications[i].IsRead = true
	l.state = next

	return nil
}

// ScanDeadlines runs s over the current projects and adopts the statuses it
// persisted. The notifications it reloaded are adopted only when the reload
// succeeded.
func (l *Ledger) ScanDeadlines(ctx context.Context, s *deadline.Scanner) (deadline.Result, error) {
	res, err := s.Scan(ctx, l.Projects())

	next := l.state.clone()
	next.projects = res.Projects

	if err == nil {
		next.notifications = res.Notifications
	}

	l.state = next

	return res, err
}
