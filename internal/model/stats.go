package model

import "github.com/shopspring/decimal"

// Stats is the dashboard aggregate recomputed on every read.
type Stats struct {
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	ActiveCount    int             `json:"activeProjectsCount"`
	PendingCount   int             `json:"pendingProjectsCount"`
	CompletedCount int             `json:"completedProjectsCount"`
	UnreadCount    int             `json:"unreadNotifications"`
}

// ComputeStats aggregates the ledger and project collections.
func ComputeStats(projects []Project, txs []Transaction, notifications []Notification) Stats {
	s := Stats{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}

	s.NetProfit = s.TotalIncome.Sub(s.TotalExpenses)

	for _, p := range projects {
		switch {
		case p.Status.Active():
			s.ActiveCount++
		case p.Status == StatusUpcoming:
			s.PendingCount++
		case p.Status == StatusDelivered:
			s.CompletedCount++
		}
	}

	for _, n := range notifications {
		if !n.IsRead {
			s.UnreadCount++
		}
	}

	return s
}
