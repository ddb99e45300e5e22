package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type sheetState int

const (
	sheetStateBrowse sheetState = iota
	sheetStateDuration
	sheetStateTax
	sheetStateExpense
	sheetStateRemove
	sheetStateDates
)

// ImportTimesheetMsg asks the parent to pick a timesheet file for the open sheet.
type ImportTimesheetMsg struct{}

// DurationsLoadedMsg carries parsed timesheet durations back to the sheet.
type DurationsLoadedMsg struct {
	Path      string
	Durations map[int64]decimal.Decimal
}

// ExportSheetMsg asks the parent to export the sheet's summary.
type ExportSheetMsg struct {
	Sheet *invoice.Sheet
}

// formFields holds huh bindings. It lives on the heap so every copy of the
// model sees the values the form writes.
type formFields struct {
	label    string
	amount   string
	duration string
	position int
	invoice  string
	due      string
}

// SheetModel shows one invoice and edits its durations, expenses, tax and dates.
type SheetModel struct {
	CommonModel

	sheet *invoice.Sheet
	items []invoice.LineItem

	state  sheetState
	table  table.Model
	input  textinput.Model
	form   *huh.Form
	fields *formFields
	itemID int64

	status string
}

func NewSheetModel(sheet *invoice.Sheet) SheetModel {
	columns := []table.Column{
		{Title: "Participant", Width: 24},
		{Title: "Thru", Width: 34},
		{Title: "Mode", Width: 10},
		{Title: "Duration", Width: 9},
		{Title: "Rate", Width: 12},
		{Title: "Total", Width: 14},
		{Title: "Cur", Width: 5},
	}

	ti := textinput.New()
	ti.Width = 20

	m := SheetModel{
		sheet:  sheet,
		table:  newTable(columns, 12),
		input:  ti,
		fields: &formFields{},
	}
	m.refreshTable()

	return m
}

func (m SheetModel) Title() string { return "Invoice" }

func (m SheetModel) ShortHelp() string {
	switch m.state {
	case sheetStateDuration, sheetStateTax:
		return "Type a number | Enter/Esc: done"
	case sheetStateExpense, sheetStateRemove, sheetStateDates:
		return "Navigate form | Esc: cancel"
	}

	if m.sheet.Mode() == invoice.ModeEdit {
		return "d: duration | t: tax | a: add expense | r: remove expense | D: dates | i: import timesheet | x: export | s: save"
	}

	return "Esc: back | e: edit | x: export"
}

func (m SheetModel) Init() tea.Cmd {
	return nil
}

func (m SheetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DurationsLoadedMsg:
		n, err := m.sheet.ApplyDurations(msg.Durations)
		if err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", err))
			return m, nil
		}

		m.status = fmt.Sprintf("Applied %d durations from %s", n, msg.Path)
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-16, 5))
		return m, nil
	}

	switch m.state {
	case sheetStateDuration:
		return m.updateDuration(msg)
	case sheetStateTax:
		return m.updateTax(msg)
	case sheetStateExpense:
		return m.updateExpense(msg)
	case sheetStateRemove:
		return m.updateRemove(msg)
	case sheetStateDates:
		return m.updateDates(msg)
	}

	return m.updateBrowse(msg)
}

func (m SheetModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "e":
		if m.sheet.Mode() == invoice.ModeEdit {
			m.status = "Already editing"
			return m, nil
		}

		m.sheet.Edit()
		m.status = "Editing"
		m.refreshTable()

		return m, nil
	case "s":
		if err := m.sheet.Save(); err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", err))
			return m, nil
		}

		m.status = "Saved"
		m.refreshTable()

		return m, nil
	case "x":
		sheet := m.sheet
		return m, func() tea.Msg { return ExportSheetMsg{Sheet: sheet} }
	case "i":
		if !m.requireEdit() {
			return m, nil
		}

		return m, func() tea.Msg { return ImportTimesheetMsg{} }
	case "d":
		return m.startInput(sheetStateDuration)
	case "t":
		return m.startInput(sheetStateTax)
	case "a":
		return m.startExpense()
	case "r":
		return m.startRemove()
	case "D":
		return m.startDates()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// requireEdit reports whether the sheet accepts edits, setting a status otherwise.
func (m *SheetModel) requireEdit() bool {
	if m.sheet.Mode() == invoice.ModeEdit {
		return true
	}

	m.status = errorStyle(fmt.Sprintf("%v: press e to edit", invoice.ErrReadOnly))

	return false
}

func (m SheetModel) selected() (invoice.LineItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return invoice.LineItem{}, false
	}

	return m.items[idx], true
}

func (m SheetModel) startInput(state sheetState) (tea.Model, tea.Cmd) {
	if !m.requireEdit() {
		return m, nil
	}

	switch state {
	case sheetStateDuration:
		li, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.itemID = li.ID
		m.input.Placeholder = "duration"
		m.input.SetValue(li.Duration.String())
	case sheetStateTax:
		m.input.Placeholder = "tax %"
		m.input.SetValue(m.sheet.TaxPercent().String())
	}

	m.state = state
	m.table.Blur()
	m.input.CursorEnd()

	return m, m.input.Focus()
}

func (m SheetModel) finishInput() (tea.Model, tea.Cmd) {
	m.state = sheetStateBrowse
	m.input.Blur()
	m.table.Focus()

	return m, nil
}

func (m SheetModel) updateDuration(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && (keyMsg.Type == tea.KeyEnter || keyMsg.Type == tea.KeyEsc) {
		return m.finishInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if err := m.sheet.SetDurationText(m.itemID, m.input.Value()); err != nil {
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
	}

	m.refreshTable()

	return m, cmd
}

func (m SheetModel) updateTax(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && (keyMsg.Type == tea.KeyEnter || keyMsg.Type == tea.KeyEsc) {
		return m.finishInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if err := m.sheet.SetTaxPercent(invoice.ParseNumber(m.input.Value())); err != nil {
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
	}

	m.refreshTable()

	return m, cmd
}

func expenseLabel(e invoice.Expense) string {
	if strings.TrimSpace(e.Label) == "" {
		return "(unlabelled)"
	}

	return e.Label
}

func validateNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return errors.New("not a number")
	}

	return nil
}

func (m SheetModel) startExpense() (tea.Model, tea.Cmd) {
	if !m.requireEdit() {
		return m, nil
	}

	li, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.itemID = li.ID
	*m.fields = formFields{}

	labels := append([]huh.Option[string]{huh.NewOption("(none)", "")}, huh.NewOptions(invoice.ExpenseLabels...)...)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("label").
				Title("Expense").
				Options(labels...).
				Value(&m.fields.label),

			huh.NewInput().
				Key("amount").
				Title("Amount ("+li.Currency+")").
				Placeholder("0.00").
				Value(&m.fields.amount).
				Validate(validateNumber),

			huh.NewInput().
				Key("duration").
				Title("Duration").
				Description("Leave empty for a one-off amount").
				Value(&m.fields.duration).
				Validate(validateNumber),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = sheetStateExpense
	m.table.Blur()

	return m, m.form.Init()
}

func (m SheetModel) updateExpense(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if err := m.sheet.SetDraft(m.itemID, invoice.Expense{}); err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", err))
		}

		return m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	draft := invoice.Expense{
		Label:    m.fields.label,
		Amount:   invoice.ParseNumber(m.fields.amount),
		Duration: invoice.ParseNumber(m.fields.duration),
	}

	if err := m.sheet.SetDraft(m.itemID, draft); err != nil {
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
		return m.closeForm()
	}

	if m.form.State != huh.StateCompleted {
		m.refreshTable()
		return m, cmd
	}

	switch err := m.sheet.CommitDraft(m.itemID); {
	case err != nil:
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
	case draft.IsBlank():
		m.status = "Nothing to add"
	default:
		m.status = fmt.Sprintf("Added %s", expenseLabel(draft))
	}

	return m.closeForm()
}

func (m SheetModel) startRemove() (tea.Model, tea.Cmd) {
	if !m.requireEdit() {
		return m, nil
	}

	li, ok := m.selected()
	if !ok {
		return m, nil
	}

	saved := m.sheet.Saved(li.ID)
	if len(saved) == 0 {
		m.status = "No saved expenses on " + li.Name
		return m, nil
	}

	options := make([]huh.Option[int], len(saved))
	for i, e := range saved {
		options[i] = huh.NewOption(fmt.Sprintf("%s %s %s", expenseLabel(e), invoice.Format(e.Total()), e.Currency), i)
	}

	m.itemID = li.ID
	m.fields.position = 0

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("position").
				Title("Remove expense").
				Options(options...).
				Value(&m.fields.position),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = sheetStateRemove
	m.table.Blur()

	return m, m.form.Init()
}

func (m SheetModel) updateRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if err := m.sheet.RemoveExpense(m.itemID, m.fields.position); err != nil {
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
	} else {
		m.status = "Expense removed"
	}

	return m.closeForm()
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (m SheetModel) startDates() (tea.Model, tea.Cmd) {
	if !m.requireEdit() {
		return m, nil
	}

	d := m.sheet.EditDates()
	m.fields.invoice = d.Invoice
	m.fields.due = d.Due

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("invoice_date").
				Title("Invoice date").
				Placeholder("2006-01-02").
				Value(&m.fields.invoice).
				Validate(validateDate),

			huh.NewInput().
				Key("due_date").
				Title("Due date").
				Placeholder("2006-01-02").
				Value(&m.fields.due).
				Validate(validateDate),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = sheetStateDates
	m.table.Blur()

	return m, m.form.Init()
}

func (m SheetModel) updateDates(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	dates := invoice.Dates{
		Invoice: strings.TrimSpace(m.fields.invoice),
		Due:     strings.TrimSpace(m.fields.due),
	}

	if err := m.sheet.SetDates(dates); err != nil {
		m.status = errorStyle(fmt.Sprintf("Error: %v", err))
	}

	return m.closeForm()
}

func (m SheetModel) closeForm() (tea.Model, tea.Cmd) {
	m.state = sheetStateBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m *SheetModel) refreshTable() {
	m.items = m.sheet.Items()

	rows := make([]table.Row, 0, len(m.items))
	for _, li := range m.items {
		mode := string(li.RateMode)
		if mode == "" {
			mode = "-"
		}

		rows = append(rows, table.Row{
			li.Name + ", " + li.Address,
			strings.Join(li.Thru, " → "),
			mode,
			li.Duration.String(),
			invoice.Format(li.RateAmount),
			invoice.Format(li.Total),
			li.Currency,
		})
	}

	m.table.SetRows(rows)
}

func (m SheetModel) View() string {
	dates := m.sheet.Dates()
	mode := "VIEW"

	if m.sheet.Mode() == invoice.ModeEdit {
		dates = m.sheet.EditDates()
		mode = activeStyle("EDIT")
	}

	header := fmt.Sprintf("%s → %s   Invoice: %s   Due: %s   [%s]",
		m.sheet.Company.Name, m.sheet.Client.Name, dates.Invoice, dates.Due, mode)

	totals := m.sheet.Totals()
	footer := fmt.Sprintf("Subtotal: %s   Tax (%s%%): %s   Total: %s",
		invoice.Format(totals.Subtotal), totals.TaxPercent.String(),
		invoice.Format(totals.Tax), activeStyle(invoice.Format(totals.Grand)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
		m.viewExpenses(),
		lipgloss.NewStyle().PaddingTop(1).Render(footer),
	)

	if panel := m.viewPanel(); panel != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	help := lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + help)
}

func (m SheetModel) viewExpenses() string {
	li, ok := m.selected()
	if !ok {
		return ""
	}

	var sb strings.Builder

	for i, e := range m.sheet.Saved(li.ID) {
		fmt.Fprintf(&sb, "  %d. %s  %s × %s = %s %s\n", i+1, expenseLabel(e),
			e.Duration.String(), invoice.Format(e.Amount), invoice.Format(e.Total()), e.Currency)
	}

	if d := m.sheet.Draft(li.ID); !d.IsBlank() {
		fmt.Fprintf(&sb, "  +  %s  %s × %s = %s %s (draft)\n", expenseLabel(d),
			d.Duration.String(), invoice.Format(d.Amount), invoice.Format(d.Total()), d.Currency)
	}

	if sb.Len() == 0 {
		return ""
	}

	return "Expenses for " + li.Name + ":\n" + sb.String()
}

func (m SheetModel) viewPanel() string {
	var body string

	switch m.state {
	case sheetStateDuration:
		body = "Duration\n\n" + m.input.View()
	case sheetStateTax:
		body = "Tax percent\n\n" + m.input.View()
	case sheetStateExpense, sheetStateRemove, sheetStateDates:
		if m.form == nil {
			return ""
		}

		body = m.form.View()
	default:
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(44).
		Render(body)
}
