package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

// DefaultCategory is used when a transaction is saved without a category.
const DefaultCategory = "عام"

type TransactionParams struct {
	// ID is generated when empty. Ignored by UpdateTransaction.
	ID          string
	Type        model.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	// Date defaults to today. Ignored by UpdateTransaction.
	Date time.Time
	// ProjectID links the transaction to a project; empty means standalone.
	ProjectID string
}

func (p TransactionParams) validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q: %w", p.Type, model.ErrValidation)
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive: %w", model.ErrValidation)
	}

	return nil
}

func (p TransactionParams) category() string {
	if c := strings.TrimSpace(p.Category); c != "" {
		return c
	}

	return DefaultCategory
}

// AddTransaction records a transaction and applies its effect to the linked
// project.
func (l *Ledger) AddTransaction(ctx context.Context, params TransactionParams) (_ model.Transaction, err error) {
	defer func() { l.metrics.LedgerOp("add_transaction", err) }()

	if err := params.validate(); err != nil {
		return model.Transaction{}, err
	}

	if params.ProjectID != "" && l.state.projectIndex(params.ProjectID) < 0 {
		return model.Transaction{}, fmt.Errorf("linked project %s: %w", params.ProjectID, model.ErrNotFound)
	}

	if params.ID == "" {
		params.ID = l.newID()
	}

	date := l.today()
	if !params.Date.IsZero() {
		date = model.Day(params.Date)
	}

	t := model.Transaction{
		ID:          params.ID,
		Type:        params.Type,
		Amount:      params.Amount,
		Category:    params.category(),
		Date:        date,
		Description: strings.TrimSpace(params.Description),
		ProjectID:   params.ProjectID,
	}

	next := l.state.clone()
	next.applyEffect(t)
	next.transactions = append([]model.Transaction{t}, next.transactions...)

	if err := l.commit(ctx, next, func() error { return l.repo.AddTransaction(ctx, t) }); err != nil {
		return model.Transaction{}, fmt.Errorf("adding transaction: %w", err)
	}

	return t, nil
}

// UpdateTransaction reverses the old effect on the old project, then applies
// the new effect on the new project. The date is kept.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, params TransactionParams) (_ model.Transaction, err error) {
	defer func() { l.metrics.LedgerOp("update_transaction", err) }()

	if err := params.validate(); err != nil {
		return model.Transaction{}, err
	}

	i := l.state.transactionIndex(id)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}

	if params.ProjectID != "" && l.state.projectIndex(params.ProjectID) < 0 {
		return model.Transaction{}, fmt.Errorf("linked project %s: %w", params.ProjectID, model.ErrNotFound)
	}

	old := l.state.transactions[i]

	t := old
	t.Type = params.Type
	t.Amount = params.Amount
	t.Category = params.category()
	t.Description = strings.TrimSpace(params.Description)
	t.ProjectID = params.ProjectID

	next := l.state.clone()
	next.reverseEffect(old)
	next.applyEffect(t)
	next.transactions[i] = t

	patch := storage.TransactionPatch{
		Type:        &t.Type,
		Amount:      &t.Amount,
		Category:    &t.Category,
		Description: &t.Description,
		ProjectID:   &t.ProjectID,
	}

	if err := l.commit(ctx, next, func() error { return l.repo.UpdateTransaction(ctx, id, patch) }); err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}

	return t, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the
// linked project.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) (err error) {
	defer func() { l.metrics.LedgerOp("delete_transaction", err) }()

	i := l.state.transactionIndex(id)
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}

	old := l.state.transactions[i]

	next := l.state.clone()
	next.reverseEffect(old)
	next.transactions = slices.Delete(next.transactions, i, i+1)

	if err := l.commit(ctx, next, func() error { return l.repo.DeleteTransaction(ctx, id) }); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// commit persists the balance changes between the current and the candidate
// state, then runs write. The candidate is adopted only if everything
// succeeded.
func (l *Ledger) commit(ctx context.Context, next state, write func() error) error {
	changes := balanceChanges(l.state, next)

	if err := l.writeBalances(ctx, changes); err != nil {
		return err
	}

	if err := write(); err != nil {
		l.restoreBalances(ctx, changes)
		return err
	}

	l.state = next

	return nil
}

// applyEffect updates the linked project, if it still exists.
func (s *state) applyEffect(t model.Transaction) {
	if i := s.projectIndex(t.ProjectID); t.Linked() && i >= 0 {
		s.projects[i] = apply(s.projects[i], t)
	}
}

func (s *state) reverseEffect(t model.Transaction) {
	if i := s.projectIndex(t.ProjectID); t.Linked() && i >= 0 {
		s.projects[i] = reverse(s.projects[i], t)
	}
}
