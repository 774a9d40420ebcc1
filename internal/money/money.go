package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var dutch = message.NewPrinter(language.Dutch)

// Parse converts an amount string from an external system into a decimal.
// Malformed or empty values degrade to zero instead of failing, so a single
// broken record never aborts an aggregation run.
func Parse(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sum adds a list of decimals.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FormatEUR renders an amount as a Dutch-locale euro string, e.g. "€ 24.750,00".
func FormatEUR(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return dutch.Sprintf("€ %.2f", f)
}
