package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// TemplatesModel lists invoice templates and opens the selected one.
type TemplatesModel struct {
	CommonModel
	invoiceService *invoice.Service

	table     table.Model
	templates []invoice.Template

	// opening is the template whose sheet is being fetched; responses for
	// any other template are stale and dropped.
	opening *int64

	loading bool
	err     error
	status  string
}

func NewTemplatesModel(svc *invoice.Service) TemplatesModel {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Template", Width: 50},
	}

	return TemplatesModel{
		invoiceService: svc,
		table:          newTable(columns, 15),
		loading:        true,
	}
}

func (m TemplatesModel) Title() string     { return "Invoice Templates" }
func (m TemplatesModel) ShortHelp() string { return "Esc: back | Enter: open | r: refresh" }

func (m TemplatesModel) Init() tea.Cmd {
	return m.loadTemplatesCmd()
}

func (m TemplatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTemplatesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.templates = msg.templates
		m.refreshTable()

		return m, nil

	case sheetLoadedMsg:
		if m.opening == nil || *m.opening != msg.templateID {
			return m, nil
		}

		m.opening = nil
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error opening template %d: %v", msg.templateID, msg.err))
			return m, nil
		}

		m.status = ""
		sheet := msg.sheet

		return m, func() tea.Msg { return SheetOpenedMsg{Sheet: sheet} }

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTemplatesCmd()
		case "enter":
			return m.open()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TemplatesModel) open() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.templates) {
		return m, nil
	}

	t := m.templates[idx]
	m.opening = new(t.ID)
	m.status = fmt.Sprintf("Opening %s...", t.Name)

	return m, m.openCmd(t.ID)
}

func (m TemplatesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading templates...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
	}

	if len(m.templates) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No templates found.\n\n(Esc to back)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(activeStyle(m.Title())),
		boxed(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TemplatesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.templates))
	for _, t := range m.templates {
		rows = append(rows, table.Row{strconv.FormatInt(t.ID, 10), t.Name})
	}

	m.table.SetRows(rows)
}

type loadTemplatesMsg struct {
	templates []invoice.Template
	err       error
}

func (m TemplatesModel) loadTemplatesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		templates, err := m.invoiceService.ListTemplates(ctx)

		return loadTemplatesMsg{templates: templates, err: err}
	}
}

type sheetLoadedMsg struct {
	templateID int64
	sheet      *invoice.Sheet
	err        error
}

func (m TemplatesModel) openCmd(templateID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sheet, err := m.invoiceService.Open(ctx, templateID)

		return sheetLoadedMsg{templateID: templateID, sheet: sheet, err: err}
	}
}
