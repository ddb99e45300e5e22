package invoice

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseLabels is the fixed set of labels an ad-hoc expense can carry.
var ExpenseLabels = []string{
	"Travel",
	"Accommodation",
	"Meals",
	"Equipment",
	"Software",
	"Miscellaneous",
}

// Expense is an ad-hoc charge billed on top of a line item. Saved expenses
// have an ID; the draft being edited does not.
type Expense struct {
	ID       uuid.UUID
	Label    string
	Amount   decimal.Decimal
	Duration decimal.Decimal
	Currency string
}

// Total is the amount multiplied by the duration, or the bare amount when
// no duration has been entered.
func (e Expense) Total() decimal.Decimal {
	return scaled(e.Amount, e.Duration)
}

// IsBlank reports whether the entry has neither a label nor an amount.
func (e Expense) IsBlank() bool {
	return strings.TrimSpace(e.Label) == "" && e.Amount.IsZero()
}

// ParseNumber reads user input as a decimal. Blank or non-numeric input is
// zero, never an error.
func ParseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
