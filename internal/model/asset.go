package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Condition is the physical state of a piece of equipment.
type Condition string

const (
	ConditionGood         Condition = "good"
	ConditionNormal       Condition = "normal"
	ConditionMissing      Condition = "missing"
	ConditionReturned     Condition = "returned"
	ConditionArrivingSoon Condition = "arriving_soon"
)

var Conditions = []Condition{ConditionGood, ConditionNormal, ConditionMissing, ConditionReturned, ConditionArrivingSoon}

var arrivingSoonRe = regexp.MustCompile(`(?i)^arriving[\s_]*soon$`)

// ParseCondition accepts the English or Arabic spellings found in gear sheets.
// Unknown or empty input maps to ConditionGood.
func ParseCondition(s string) Condition {
	t := strings.TrimSpace(s)
	lower := strings.ToLower(t)

	switch {
	case lower == "good" || t == "جيد":
		return ConditionGood
	case lower == "normal" || t == "عادي":
		return ConditionNormal
	case lower == "missing" || lower == "messing" || t == "مفقود":
		return ConditionMissing
	case lower == "returned" || t == "مرتجع":
		return ConditionReturned
	case arrivingSoonRe.MatchString(t) || t == "يصل قريباً" || t == "يصل قريبا":
		return ConditionArrivingSoon
	}

	return ConditionGood
}

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionNormal, ConditionMissing, ConditionReturned, ConditionArrivingSoon:
		return true
	}

	return false
}

// ExcludedFromTotal reports whether items in this condition are left out of
// the equipment count.
func (c Condition) ExcludedFromTotal() bool {
	return c == ConditionMissing || c == ConditionReturned || c == ConditionArrivingSoon
}

func (c Condition) Label() string {
	switch c {
	case ConditionGood:
		return "جيد"
	case ConditionNormal:
		return "عادي"
	case ConditionMissing:
		return "مفقود"
	case ConditionReturned:
		return "مرتجع"
	case ConditionArrivingSoon:
		return "يصل قريباً"
	}

	return string(c)
}

// Asset is a piece of studio equipment.
type Asset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Brand        string          `json:"brand,omitempty"`
	Condition    Condition       `json:"condition"`
	Value        decimal.Decimal `json:"value"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
}
