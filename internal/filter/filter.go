// Package filter holds the read-side search, classification and totals used
// by the presentation layers. Nothing here touches storage.
package filter

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

// fold normalizes text for case-insensitive substring matching.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// matches reports whether any field contains the folded query q.
func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}

	return slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(fold(f), q)
	})
}

type ProjectQuery struct {
	Search string
	// Status restricts the result when set.
	Status model.Status
}

// Projects returns the projects matching q in their original order.
func Projects(ps []model.Project, q ProjectQuery) []model.Project {
	needle := fold(q.Search)

	var out []model.Project

	for _, p := range ps {
		if q.Status != "" && p.Status != q.Status {
			continue
		}

		if !matches(needle,
			p.Title, p.Client,
			string(p.Type), p.Type.Label(),
			string(p.Status), p.Status.Label(),
			p.Budget.String(), model.FormatDay(p.Deadline),
		) {
			continue
		}

		out = append(out, p)
	}

	return out
}

type TransactionQuery struct {
	Search string
	Type   model.TransactionType
	// ProjectID restricts the result to transactions linked to that project.
	ProjectID string
}

// Transactions returns the transactions matching q. ps resolves the linked
// project title, which is searchable too.
func Transactions(ts []model.Transaction, ps []model.Project, q TransactionQuery) []model.Transaction {
	needle := fold(q.Search)

	titles := make(map[string]string, len(ps))
	for _, p := range ps {
		titles[p.ID] = p.Title
	}

	var out []model.Transaction

	for _, t := range ts {
		if q.Type != "" && t.Type != q.Type {
			continue
		}

		if q.ProjectID != "" && t.ProjectID != q.ProjectID {
			continue
		}

		if !matches(needle,
			t.Description, t.Category, model.FormatDay(t.Date),
			t.Amount.String(), string(t.Type), t.Type.Label(),
			titles[t.ProjectID],
		) {
			continue
		}

		out = append(out, t)
	}

	return out
}

type AssetQuery struct {
	Search    string
	Category  string
	Condition model.Condition
}

// Assets returns the assets matching q.
func Assets(as []model.Asset, q AssetQuery) []model.Asset {
	needle := fold(q.Search)
	category := strings.TrimSpace(q.Category)

	var out []model.Asset

	for _, a := range as {
		if category != "" && strings.TrimSpace(a.Category) != category {
			continue
		}

		if q.Condition != "" && a.Condition != q.Condition {
			continue
		}

		if !matches(needle,
			a.Name, a.Category, a.Brand,
			string(a.Condition), a.Condition.Label(),
			a.Notes, a.Value.String(), model.FormatDay(a.PurchaseDate),
		) {
			continue
		}

		out = append(out, a)
	}

	return out
}

// EquipmentTotals is the inventory summary shown above the asset list.
type EquipmentTotals struct {
	// Count sums quantities of items not excluded by their condition.
	Count int
	// Value sums the value of every item.
	Value decimal.Decimal
}

func Totals(as []model.Asset) EquipmentTotals {
	t := EquipmentTotals{Value: decimal.Zero}

	for _, a := range as {
		t.Value = t.Value.Add(a.Value)

		if a.Condition.ExcludedFromTotal() {
			continue
		}

		t.Count += max(a.Quantity, 0)
	}

	return t
}

// AssetCategories lists the distinct non-empty categories, sorted.
func AssetCategories(as []model.Asset) []string {
	var out []string

	for _, a := range as {
		c := strings.TrimSpace(a.Category)
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}

	slices.Sort(out)

	return out
}
