package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type transactionResponse struct {
	ID           string                `json:"id"`
	Type         model.TransactionType `json:"type"`
	Amount       decimal.Decimal       `json:"amount"`
	Category     string                `json:"category"`
	Icon         filter.Icon           `json:"icon"`
	Date         string                `json:"date"`
	Description  string                `json:"description"`
	ProjectID    string                `json:"projectId,omitempty"`
	ProjectTitle string                `json:"projectTitle,omitempty"`
}

func toResponse(t model.Transaction, titles map[string]string) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Type:         t.Type,
		Amount:       t.Amount,
		Category:     t.Category,
		Icon:         filter.CategoryIcon(t.Category),
		Date:         model.FormatDay(t.Date),
		Description:  t.Description,
		ProjectID:    t.ProjectID,
		ProjectTitle: titles[t.ProjectID],
	}
}

func toResponseList(ts []model.Transaction, ps []model.Project) []transactionResponse {
	titles := make(map[string]string, len(ps))
	for _, p := range ps {
		titles[p.ID] = p.Title
	}

	resp := make([]transactionResponse, len(ts))
	for i, t := range ts {
		resp[i] = toResponse(t, titles)
	}

	return resp
}
