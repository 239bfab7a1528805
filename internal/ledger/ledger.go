// Package ledger keeps project balances consistent with the transaction
// ledger and owns the in-memory view of a session's studio data.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

//go:generate mockgen -source=ledger.go -destination=repository_mock.go -package=ledger

// Repository is the slice of storage.Storage the ledger writes through.
type Repository interface {
	Projects(ctx context.Context) ([]model.Project, error)
	AddProject(ctx context.Context, p model.Project) error
	UpdateProject(ctx context.Context, id string, patch storage.ProjectPatch) error
	DeleteProject(ctx context.Context, id string) error

	Transactions(ctx context.Context) ([]model.Transaction, error)
	AddTransaction(ctx context.Context, t model.Transaction) error
	UpdateTransaction(ctx context.Context, id string, patch storage.TransactionPatch) error
	DeleteTransaction(ctx context.Context, id string) error

	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	DeleteProjectNotifications(ctx context.Context, projectID string) error
}

type state struct {
	projects      []model.Project
	transactions  []model.Transaction
	notifications []model.Notification
}

func (s state) clone() state {
	return state{
		projects:      slices.Clone(s.projects),
		transactions:  slices.Clone(s.transactions),
		notifications: slices.Clone(s.notifications),
	}
}

func (s state) projectIndex(id string) int {
	return slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
}

func (s state) transactionIndex(id string) int {
	return slices.IndexFunc(s.transactions, func(t model.Transaction) bool { return t.ID == id })
}

// Ledger is not safe for concurrent use; one session drives one Ledger.
type Ledger struct {
	repo    Repository
	now     func() time.Time
	newID   func() string
	metrics *metrics.Metrics
	state   state
}

type Option func(*Ledger)

// WithClock overrides the clock used for start and transaction dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides the generator used for new entity ids.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// WithMetrics counts every mutating operation and its outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// Open loads the current projects, transactions and notifications.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(l)
	}

	if err := l.Reload(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

// Reload replaces the in-memory state with what storage holds. On failure the
// previous state is kept.
func (l *Ledger) Reload(ctx context.Context) error {
	projects, err := l.repo.Projects(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}

	txs, err := l.repo.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	notifications, err := l.repo.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}

	l.state = state{projects: projects, transactions: txs, notifications: notifications}

	return nil
}

func (l *Ledger) Projects() []model.Project {
	return slices.Clone(l.state.projects)
}

func (l *Ledger) Transactions() []model.Transaction {
	return slices.Clone(l.state.transactions)
}

func (l *Ledger) Notifications() []model.Notification {
	return slices.Clone(l.state.notifications)
}

// Project returns the project with the given id.
func (l *Ledger) Project(id string) (model.Project, bool) {
	i := l.state.projectIndex(id)
	if i < 0 {
		return model.Project{}, false
	}

	return l.state.projects[i], true
}

// Transaction returns the transaction with the given id.
func (l *Ledger) Transaction(id string) (model.Transaction, bool) {
	i := l.state.transactionIndex(id)
	if i < 0 {
		return model.Transaction{}, false
	}

	return l.state.transactions[i], true
}

// Stats aggregates the current state.
func (l *Ledger) Stats() model.Stats {
	return model.ComputeStats(l.state.projects, l.state.transactions, l.state.notifications)
}

func (l *Ledger) today() time.Time {
	return model.Day(l.now())
}
