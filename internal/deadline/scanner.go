// Package deadline classifies projects by deadline proximity, moves late
// projects to overdue and emits de-duplicated alerts.
package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

//go:generate mockgen -source=scanner.go -destination=repository_mock.go -package=deadline

type Repository interface {
	UpdateProject(ctx context.Context, id string, patch storage.ProjectPatch) error
	AddNotification(ctx context.Context, n model.Notification) error
	Notifications(ctx context.Context) ([]model.Notification, error)
}

// DefaultWindow is how many days ahead a deadline counts as approaching.
const DefaultWindow = 3

type Scanner struct {
	repo    Repository
	now     func() time.Time
	logger  *slog.Logger
	window  int
	metrics *metrics.Metrics
}

type Option func(*Scanner)

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithWindow sets the approaching-deadline window in days.
func WithWindow(days int) Option {
	return func(s *Scanner) { s.window = days }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

func NewScanner(repo Repository, opts ...Option) *Scanner {
	s := &Scanner{
		repo:   repo,
		now:    time.Now,
		logger: slog.Default(),
		window: DefaultWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result describes one scan.
type Result struct {
	// Projects is the input with every persisted overdue transition applied.
	Projects []model.Project
	// Notifications is the full set reloaded from storage after the scan.
	Notifications []model.Notification
	Transitioned  int
	Emitted       int
	Failures      int
}

// Scan classifies every non-terminal project against today. Individual
// persistence failures are logged, counted and skipped; only the final
// notification reload can fail the scan. Scanning an unchanged project set
// again creates nothing new.
func (s *Scanner) Scan(ctx context.Context, projects []model.Project) (Result, error) {
	res := Result{Projects: slices.Clone(projects)}

	today := model.Day(s.now())
	horizon := today.AddDate(0, 0, s.window)

	for i, p := range res.Projects {
		if p.Status.Terminal() {
			continue
		}

		due := model.Day(p.Deadline)

		switch {
		case due.Before(today):
			res.Projects[i] = s.overdue(ctx, p, &res)
		case !due.After(horizon):
			s.approaching(ctx, p, &res)
		}
	}

	s.metrics.ScanCompleted(res.Failures)

	notifications, err := s.repo.Notifications(ctx)
	if err != nil {
		return res, fmt.Errorf("reloading notifications: %w", err)
	}

	res.Notifications = notifications

	return res, nil
}

func (s *Scanner) overdue(ctx context.Context, p model.Project, res *Result) model.Project {
	if p.Status != model.StatusOverdue {
		status := model.StatusOverdue

		if err := s.repo.UpdateProject(ctx, p.ID, storage.ProjectPatch{Status: &status}); err != nil {
			// The alert is skipped too so the next scan retries the transition.
			s.logger.Error("failed to mark project overdue", "project", p.ID, "error", err)
			res.Failures++
		} else {
			p.Status = status
			res.Transitioned++
			s.metrics.ProjectOverdue()

			s.emit(ctx, res, model.Notification{
				ID:        model.NotificationID(model.KindOverdue, p.ID),
				Kind:      model.KindOverdue,
				Title:     "مشروع متأخر!",
				Message:   fmt.Sprintf("المشروع \"%s\" تجاوز موعد التسليم النهائي في %s.", p.Title, model.FormatDay(p.Deadline)),
				ProjectID: p.ID,
			})
		}
	}

	if p.Unpaid() {
		s.emit(ctx, res, model.Notification{
			ID:        model.NotificationID(model.KindPayOverdue, p.ID),
			Kind:      model.KindPayOverdue,
			Title:     "تنبيه مالي: مستحقات متأخرة",
			Message:   fmt.Sprintf("مشروع \"%s\" متأخر ويوجد مبلغ متبقي (%s د.إ) لم يتم تحصيله.", p.Title, p.Remaining().String()),
			ProjectID: p.ID,
		})
	}

	return p
}

func (s *Scanner) approaching(ctx context.Context, p model.Project, res *Result) {
	s.emit(ctx, res, model.Notification{
		ID:        model.NotificationID(model.KindWarn, p.ID),
		Kind:      model.KindWarn,
		Title:     "اقتراب موعد التسليم!",
		Message:   fmt.Sprintf("المشروع \"%s\" ينتهي خلال أقل من %d أيام (%s).", p.Title, s.window, model.FormatDay(p.Deadline)),
		ProjectID: p.ID,
	})

	if p.Unpaid() {
		s.emit(ctx, res, model.Notification{
			ID:        model.NotificationID(model.KindPayWarn, p.ID),
			Kind:      model.KindPayWarn,
			Title:     "تذكير بالدفع",
			Message:   fmt.Sprintf("موعد تسليم \"%s\" اقترب. يرجى متابعة تحصيل المبلغ المتبقي (%s د.إ).", p.Title, p.Remaining().String()),
			ProjectID: p.ID,
		})
	}
}

// emit inserts n if its id is not stored yet.
func (s *Scanner) emit(ctx context.Context, res *Result, n model.Notification) {
	n.Date = s.now()

	if err := s.repo.AddNotification(ctx, n); err != nil {
		s.logger.Error("failed to add notification", "notification", n.ID, "error", err)
		res.Failures++

		return
	}

	res.Emitted++
	s.metrics.NotificationEmitted(string(n.Kind))
}
