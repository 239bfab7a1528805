package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction (income or expense).
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Label returns the Arabic name shown in the studio UI.
func (t TransactionType) Label() string {
	switch t {
	case TypeIncome:
		return "دخل"
	case TypeExpense:
		return "مصروف"
	}

	return string(t)
}

// Transaction is a single recorded income or expense, optionally tied to a project.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"` // frozen after creation
	Description string          `json:"description"`
	ProjectID   string          `json:"projectId,omitempty"` // weak reference
}

// Linked reports whether the transaction references a project.
func (t Transaction) Linked() bool {
	return t.ProjectID != ""
}
