package ledger

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/storage"
)

// apply adds the effect of t to p: income raises the paid amount, expenses
// lower the budget.
func apply(p model.Project, t model.Transaction) model.Project {
	switch t.Type {
	case model.TypeIncome:
		p.PaidAmount = p.PaidAmount.Add(t.Amount)
	case model.TypeExpense:
		p.Budget = p.Budget.Sub(t.Amount)
	}

	return p
}

// reverse undoes apply. The paid amount never drops below zero; the budget
// has no floor.
func reverse(p model.Project, t model.Transaction) model.Project {
	switch t.Type {
	case model.TypeIncome:
		p.PaidAmount = decimal.Max(decimal.Zero, p.PaidAmount.Sub(t.Amount))
	case model.TypeExpense:
		p.Budget = p.Budget.Add(t.Amount)
	}

	return p
}

// balanceChange is a project whose paid amount or budget differs between
// the committed and the candidate state.
type balanceChange struct {
	before model.Project
	after  model.Project
}

func balanceChanged(a, b model.Project) bool {
	return !a.PaidAmount.Equal(b.PaidAmount) || !a.Budget.Equal(b.Budget)
}

// balanceChanges lists the projects of next whose balances moved relative to
// prev.
func balanceChanges(prev, next state) []balanceChange {
	var changes []balanceChange

	for _, after := range next.projects {
		i := prev.projectIndex(after.ID)
		if i < 0 {
			continue
		}

		if before := prev.projects[i]; balanceChanged(before, after) {
			changes = append(changes, balanceChange{before: before, after: after})
		}
	}

	return changes
}

func balancePatch(p model.Project) storage.ProjectPatch {
	return storage.ProjectPatch{Budget: &p.Budget, PaidAmount: &p.PaidAmount}
}

// writeBalances persists each change in order. If one fails, the changes
// already written are restored before the error is returned.
func (l *Ledger) writeBalances(ctx context.Context, changes []balanceChange) error {
	for i, c := range changes {
		if err := l.repo.UpdateProject(ctx, c.after.ID, balancePatch(c.after)); err != nil {
			l.restoreBalances(ctx, changes[:i])
			return err
		}
	}

	return nil
}

// restoreBalances is best effort: failures are logged and otherwise ignored.
func (l *Ledger) restoreBalances(ctx context.Context, changes []balanceChange) {
	for _, c := range changes {
		if err := l.repo.UpdateProject(ctx, c.before.ID, balancePatch(c.before)); err != nil {
			slog.Error("failed to restore project balance", "project", c.before.ID, "error", err)
		}
	}
}
