package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusOverdue    Status = "overdue"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusUpcoming, StatusInProgress, StatusDelivered, StatusCancelled, StatusOverdue}

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusInProgress, StatusDelivered, StatusCancelled, StatusOverdue:
		return true
	}

	return false
}

// Terminal reports whether deadline scanning ignores projects in this status.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Active reports whether the project counts as active work on the dashboard.
func (s Status) Active() bool {
	return s == StatusInProgress || s == StatusOverdue
}

func (s Status) Label() string {
	switch s {
	case StatusUpcoming:
		return "قادم"
	case StatusInProgress:
		return "قيد التنفيذ"
	case StatusDelivered:
		return "تم التسليم"
	case StatusCancelled:
		return "ملغي"
	case StatusOverdue:
		return "متأخر"
	}

	return string(s)
}

// ServiceType is the kind of work delivered for a project.
type ServiceType string

const (
	ServicePhotography ServiceType = "photography"
	ServiceEditing     ServiceType = "editing"
	ServiceFull        ServiceType = "full_service"
)

func (t ServiceType) Valid() bool {
	return t == ServicePhotography || t == ServiceEditing || t == ServiceFull
}

func (t ServiceType) Label() string {
	switch t {
	case ServicePhotography:
		return "تصوير فوتوغرافي"
	case ServiceEditing:
		return "مونتاج فيديو"
	case ServiceFull:
		return "تصوير ومونتاج"
	}

	return string(t)
}

// Project is a billable unit of client work.
//
// PaidAmount grows with linked income; Budget shrinks with linked expenses.
// Expenses never touch PaidAmount.
type Project struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Client     string          `json:"client"`
	Type       ServiceType     `json:"type"`
	Status     Status          `json:"status"`
	Budget     decimal.Decimal `json:"budget"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	StartDate  time.Time       `json:"startDate"`
	Deadline   time.Time       `json:"deadline"`
}

// Unpaid reports whether the client still owes part of the budget.
func (p Project) Unpaid() bool {
	return p.PaidAmount.LessThan(p.Budget)
}

// Remaining is the budget left to collect.
func (p Project) Remaining() decimal.Decimal {
	return p.Budget.Sub(p.PaidAmount)
}
