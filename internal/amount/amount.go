// Package amount parses monetary input typed with Western or Arabic-Indic digits.
package amount

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

var normalizer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".",
)

// Normalize rewrites Arabic-Indic and Extended Arabic-Indic digits and the
// Arabic decimal separator to their ASCII forms.
func Normalize(s string) string {
	return normalizer.Replace(strings.TrimSpace(s))
}

// leading numeric prefix, so "250 AED" still reads as 250.
var numberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Parse converts user input into an amount. Arabic-Indic digits and the
// Arabic decimal separator are accepted. Anything unparseable yields zero;
// callers must treat zero as "no valid amount supplied".
func Parse(s string) decimal.Decimal {
	clean := Normalize(s)

	m := numberRe.FindString(clean)
	if m == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// Required parses a mandatory amount field and rejects anything that is not
// strictly positive.
func Required(field, s string) (decimal.Decimal, error) {
	d := Parse(s)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s: %w: enter a positive amount", field, model.ErrValidation)
	}

	return d, nil
}
