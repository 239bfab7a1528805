package view

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

const dbTimeout = 5 * time.Second

// Currency is appended to every rendered amount.
const Currency = "د.إ"

// FormatAmount renders a money amount with two decimals and the currency.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + Currency
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return model.FormatDay(t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// errorText turns domain errors into the short messages shown in the status
// line.
func errorText(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "تحقق من المدخلات: " + err.Error()
	case errors.Is(err, model.ErrNotFound):
		return "العنصر غير موجود"
	case errors.Is(err, model.ErrDuplicateKey):
		return "المعرف مستخدم مسبقاً"
	case errors.Is(err, model.ErrUnauthorized):
		return "بيانات المدير غير صحيحة"
	case errors.Is(err, model.ErrTransport):
		return "تعذر الوصول إلى قاعدة البيانات، حاول مرة أخرى"
	}

	return "Error: " + err.Error()
}
