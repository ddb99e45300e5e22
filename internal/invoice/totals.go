package invoice

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxPercent is used when the tax rate cannot be derived from the
// current totals.
var DefaultTaxPercent = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

// Totals holds the derived amounts of an invoice at full precision.
// Rows is aligned with the line items passed to Compute; Items sums the
// rows of each item ID.
type Totals struct {
	Rows       []decimal.Decimal
	Items      map[int64]decimal.Decimal
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	Tax        decimal.Decimal
	Grand      decimal.Decimal
}

// Compute derives every total from the current state. It has no side
// effects, so calling it again on the same input yields the same result.
//
// An item's total is its base total plus its saved expenses plus its draft,
// the draft counting only when it is not blank. Rows sharing an item ID
// share its expenses, which are billed once on the first of those rows.
func Compute(items []LineItem, saved map[int64][]Expense, drafts map[int64]Expense, taxPercent decimal.Decimal) Totals {
	t := Totals{
		Rows:       make([]decimal.Decimal, len(items)),
		Items:      make(map[int64]decimal.Decimal, len(items)),
		Subtotal:   decimal.Zero,
		TaxPercent: taxPercent,
	}

	for i, li := range items {
		total := li.BaseTotal()

		if _, billed := t.Items[li.ID]; !billed {
			for _, e := range saved[li.ID] {
				total = total.Add(e.Total())
			}

			if d, ok := drafts[li.ID]; ok && !d.IsBlank() {
				total = total.Add(d.Total())
			}
		}

		t.Rows[i] = total
		t.Items[li.ID] = t.Items[li.ID].Add(total)
		t.Subtotal = t.Subtotal.Add(total)
	}

	t.Tax = t.Subtotal.Mul(taxPercent).Div(hundred)
	t.Grand = t.Subtotal.Add(t.Tax)

	return t
}

// DeriveTaxPercent returns tax as a percentage of subtotal, or
// DefaultTaxPercent when the subtotal is zero.
func DeriveTaxPercent(subtotal, tax decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return DefaultTaxPercent
	}

	return tax.Div(subtotal).Mul(hundred)
}

// Format renders an amount with two decimals for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
