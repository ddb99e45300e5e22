package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func sampleSheet(t *testing.T) *invoice.Sheet {
	t.Helper()

	sheet := invoice.NewSheet(&invoice.Payload{
		Company:     invoice.Party{Name: "Acme"},
		Client:      invoice.Party{Name: "Globex Ltd."},
		InvoiceDate: "2024-03-01",
		DueDate:     "2024-03-31",
		Notice:      "Net 30",
		InvoiceItems: []*invoice.Node{
			{ID: 1, Name: "Dinesh", Address: "Madurai", GivenTo: []*invoice.Node{
				{ID: 3, Name: "Leaf", Address: "Bangalore", Project: &invoice.Project{
					RateMode:   invoice.RateDaily,
					RateAmount: decimal.NewFromInt(30000),
					Currency:   "INR",
				}},
			}},
		},
	})

	sheet.Edit()
	require.NoError(t, sheet.SetDuration(3, decimal.NewFromInt(5)))
	require.NoError(t, sheet.SetTaxPercent(decimal.NewFromInt(10)))
	require.NoError(t, sheet.SetDraft(3, invoice.Expense{Label: "Travel", Amount: decimal.NewFromInt(500)}))
	require.NoError(t, sheet.CommitDraft(3))
	require.NoError(t, sheet.Save())

	return sheet
}

func TestSummary(t *testing.T) {
	body := export.Summary(sampleSheet(t))

	expectedSubstrings := []string{
		"Invoice 01-03-2024 → 31-03-2024 | Acme to Globex Ltd.",
		"* Leaf, Bangalore | Dinesh, Madurai | Daily | 5 × 30000.00 | 150500.00 INR",
		"    - Travel | 0 × 500.00 | 500.00 INR",
		"Subtotal: 150500.00 INR",
		"Tax (10%): 15050.00 INR",
		"Total: 165550.00 INR",
		"Net 30",
	}

	for _, sub := range expectedSubstrings {
		assert.Contains(t, body, sub)
	}
}

func TestService_WriteSummary(t *testing.T) {
	dir := t.TempDir()

	path, err := export.NewService().WriteSummary(filepath.Join(dir, "out"), sampleSheet(t))
	require.NoError(t, err)
	assert.Equal(t, "20240301_Globex_Ltd_.txt", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Invoice 01-03-2024"))
}

func TestSummary_DuplicateItemListsExpensesOnce(t *testing.T) {
	project := &invoice.Project{RateMode: invoice.RateFixed, RateAmount: decimal.NewFromInt(100), Currency: "INR"}

	sheet := invoice.NewSheet(&invoice.Payload{
		InvoiceItems: []*invoice.Node{
			{ID: 1, Name: "A", Address: "Pune", GivenTo: []*invoice.Node{{ID: 3, Name: "Leaf", Address: "Goa", Project: project}}},
			{ID: 2, Name: "B", Address: "Agra", GivenTo: []*invoice.Node{{ID: 3, Name: "Leaf", Address: "Goa", Project: project}}},
		},
	})

	sheet.Edit()
	require.NoError(t, sheet.SetDraft(3, invoice.Expense{Label: "Travel", Amount: decimal.NewFromInt(7)}))
	require.NoError(t, sheet.CommitDraft(3))

	body := export.Summary(sheet)
	assert.Equal(t, 1, strings.Count(body, "- Travel"))
	assert.Contains(t, body, "| 107.00 INR")
	assert.Contains(t, body, "| 100.00 INR")
}
