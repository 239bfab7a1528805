package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

// InitialPaymentCategory is the category of the transaction recorded for a
// project's upfront payment.
const InitialPaymentCategory = "دفعات مشاريع"

// InitialPaymentID returns the id of the upfront payment of a project.
func InitialPaymentID(projectID string) string {
	return "init:" + projectID
}

type ProjectParams struct {
	// ID is generated when empty.
	ID          string
	Title       string
	Client      string
	Type        model.ServiceType
	Budget      decimal.Decimal
	InitialPaid decimal.Decimal
	Deadline    time.Time
}

func (p ProjectParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("project title is required: %w", model.ErrValidation)
	}

	if p.Deadline.IsZero() {
		return fmt.Errorf("project deadline is required: %w", model.ErrValidation)
	}

	if p.Budget.IsNegative() {
		return fmt.Errorf("project budget must not be negative: %w", model.ErrValidation)
	}

	if p.InitialPaid.IsNegative() {
		return fmt.Errorf("initial payment must not be negative: %w", model.ErrValidation)
	}

	if p.Type != "" && !p.Type.Valid() {
		return fmt.Errorf("unknown service type %q: %w", p.Type, model.ErrValidation)
	}

	return nil
}

// CreateProject records a new upcoming project starting today. A positive
// initial payment is also recorded as an income transaction linked to it.
func (l *Ledger) CreateProject(ctx context.Context, params ProjectParams) (_ model.Project, err error) {
	defer func() { l.metrics.LedgerOp("create_project", err) }()

	if err := params.validate(); err != nil {
		return model.Project{}, err
	}

	if params.Type == "" {
		params.Type = model.ServicePhotography
	}

	if params.ID == "" {
		params.ID = l.newID()
	}

	p := model.Project{
		ID:         params.ID,
		Title:      strings.TrimSpace(params.Title),
		Client:     strings.TrimSpace(params.Client),
		Type:       params.Type,
		Status:     model.StatusUpcoming,
		Budget:     params.Budget,
		PaidAmount: params.InitialPaid,
		StartDate:  l.today(),
		Deadline:   model.Day(params.Deadline),
	}

	if err := l.repo.AddProject(ctx, p); err != nil {
		return model.Project{}, fmt.Errorf("adding project: %w", err)
	}

	next := l.state.clone()
	next.projects = append([]model.Project{p}, next.projects...)

	if p.PaidAmount.IsPositive() {
		t := model.Transaction{
			ID:          InitialPaymentID(p.ID),
			Type:        model.TypeIncome,
			Amount:      p.PaidAmount,
			Category:    InitialPaymentCategory,
			Date:        l.today(),
			Description: "دفعة أولية: " + p.Title,
			ProjectID:   p.ID,
		}

		if err := l.repo.AddTransaction(ctx, t); err != nil {
			if rerr := l.repo.DeleteProject(ctx, p.ID); rerr != nil {
				slog.Error("failed to remove project after initial payment failure", "project", p.ID, "error", rerr)
			}

			return model.Project{}, fmt.Errorf("adding initial payment: %w", err)
		}

		next.transactions = append([]model.Transaction{t}, next.transactions...)
	}

	l.state = next

	return p, nil
}

// SetProjectStatus applies a manual status change. Any transition is allowed.
func (l *Ledger) SetProjectStatus(ctx context.Context, id string, status model.Status) (_ model.Project, err error) {
	defer func() { l.metrics.LedgerOp("set_project_status", err) }()

	if !status.Valid() {
		return model.Project{}, fmt.Errorf("unknown status %q: %w", status, model.ErrValidation)
	}

	i := l.state.projectIndex(id)
	if i < 0 {
		return model.Project{}, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	if err := l.repo.UpdateProject(ctx, id, storage.ProjectPatch{Status: &status}); err != nil {
		return model.Project{}, fmt.Errorf("updating project status: %w", err)
	}

	next := l.state.clone()
	next.projects[i].Status = status
	l.state = next

	return next.projects[i], nil
}

// DeleteProject removes a project together with its transactions and
// notifications. Balances are not reversed. The cascade is not atomic: if a
// step fails, the entities removed so far stay removed and the in-memory
// state reflects exactly those removals.
func (l *Ledger) DeleteProject(ctx context.Context, id string) (err error) {
	defer func() { l.metrics.LedgerOp("delete_project", err) }()

	if l.state.projectIndex(id) < 0 {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	next := l.state.clone()
	err = l.cascade(ctx, id, &next)
	l.state = next

	return err
}

func (l *Ledger) cascade(ctx context.Context, id string, next *state) error {
	for _, t := range l.state.transactions {
		if t.ProjectID != id {
			continue
		}

		if err := l.repo.DeleteTransaction(ctx, t.ID); err != nil {
			return fmt.Errorf("deleting linked transaction %s: %w", t.ID, err)
		}

		next.transactions = slices.DeleteFunc(next.transactions, func(x model.Transaction) bool { return x.ID == t.ID })
	}

	// Storage may hold more of the project's notifications than the loaded window.
	if err := l.repo.DeleteProjectNotifications(ctx, id); err != nil {
		return fmt.Errorf("deleting linked notifications: %w", err)
	}

	next.notifications = slices.DeleteFunc(next.notifications, func(n model.Notification) bool { return n.ProjectID == id })

	if err := l.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	next.projects = slices.DeleteFunc(next.projects, func(p model.Project) bool { return p.ID == id })

	return nil
}
