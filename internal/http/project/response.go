package project

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type projectResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Client      string            `json:"client"`
	Type        model.ServiceType `json:"type"`
	TypeLabel   string            `json:"typeLabel"`
	Status      model.Status      `json:"status"`
	StatusLabel string            `json:"statusLabel"`
	Budget      decimal.Decimal   `json:"budget"`
	PaidAmount  decimal.Decimal   `json:"paidAmount"`
	Remaining   decimal.Decimal   `json:"remaining"`
	StartDate   string            `json:"startDate"`
	Deadline    string            `json:"deadline"`
}

func toResponse(p model.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Client:      p.Client,
		Type:        p.Type,
		TypeLabel:   p.Type.Label(),
		Status:      p.Status,
		StatusLabel: p.Status.Label(),
		Budget:      p.Budget,
		PaidAmount:  p.PaidAmount,
		Remaining:   p.Remaining(),
		StartDate:   model.FormatDay(p.StartDate),
		Deadline:    model.FormatDay(p.Deadline),
	}
}

func toResponseList(ps []model.Project) []projectResponse {
	resp := make([]projectResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}

