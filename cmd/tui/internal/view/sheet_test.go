package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func newSheet() *invoice.Sheet {
	return invoice.NewSheet(&invoice.Payload{
		Company:     invoice.Party{Name: "Acme"},
		Client:      invoice.Party{Name: "Globex"},
		InvoiceDate: "2024-03-01",
		DueDate:     "2024-03-31",
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
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m SheetModel, keys ...string) SheetModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(SheetModel)
	}

	return m
}

func TestSheetModel_ViewModeRejectsEdits(t *testing.T) {
	m := press(NewSheetModel(newSheet()), "d")

	assert.Equal(t, sheetStateBrowse, m.state)
	assert.Contains(t, m.status, invoice.ErrReadOnly.Error())
}

func TestSheetModel_DurationAndTaxUpdateTotals(t *testing.T) {
	sheet := newSheet()
	m := press(NewSheetModel(sheet), "e", "d")
	require.Equal(t, sheetStateDuration, m.state)

	m = press(m, "backspace", "5")
	assert.Equal(t, "150000", sheet.Totals().Subtotal.String())

	m = press(m, "enter", "t", "backspace", "backspace", "2", "0", "enter")
	assert.Equal(t, sheetStateBrowse, m.state)
	assert.Equal(t, "180000", sheet.Totals().Grand.String())

	m = press(m, "s")
	assert.Equal(t, invoice.ModeView, sheet.Mode())
	assert.Contains(t, m.View(), "180000.00")
}

func TestSheetModel_DurationsLoaded(t *testing.T) {
	sheet := newSheet()
	m := press(NewSheetModel(sheet), "e")

	next, _ := m.Update(DurationsLoadedMsg{Path: "hours.csv", Durations: map[int64]decimal.Decimal{3: decimal.NewFromInt(2)}})
	m = next.(SheetModel)

	assert.Contains(t, m.status, "Applied 1 durations")
	assert.Equal(t, "60000", sheet.Totals().Subtotal.String())
}

func TestSheetModel_ExportAndImportMessages(t *testing.T) {
	m := NewSheetModel(newSheet())

	_, cmd := m.Update(key("x"))
	require.NotNil(t, cmd)
	assert.IsType(t, ExportSheetMsg{}, cmd())

	m = press(m, "e")
	_, cmd = m.Update(key("i"))
	require.NotNil(t, cmd)
	assert.IsType(t, ImportTimesheetMsg{}, cmd())
}

func TestSheetModel_ExpenseFormStartsBlank(t *testing.T) {
	sheet := newSheet()
	m := press(NewSheetModel(sheet), "e", "a")
	require.Equal(t, sheetStateExpense, m.state)

	assert.Empty(t, m.fields.label)
	assert.True(t, sheet.Draft(3).IsBlank())
	assert.Equal(t, "30000", sheet.Totals().Subtotal.String())

	m = press(m, "esc")
	assert.Equal(t, sheetStateBrowse, m.state)
	assert.Empty(t, sheet.Saved(3))
}

func TestSheetModel_EditTwiceKeepsPendingDates(t *testing.T) {
	sheet := newSheet()
	m := press(NewSheetModel(sheet), "e")
	require.NoError(t, sheet.SetDates(invoice.Dates{Invoice: "2024-05-05", Due: "2024-06-06"}))

	m = press(m, "e")
	assert.Equal(t, "Already editing", m.status)
	assert.Equal(t, "2024-05-05", sheet.EditDates().Invoice)
}
