package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type exportStep int

const (
	stepChooseDir exportStep = iota
	stepWriting
	stepDone
)

// ExportModel asks for a directory and writes the invoice summary there.
type ExportModel struct {
	CommonModel
	writer *export.Service
	sheet  *invoice.Sheet

	step    exportStep
	dirForm *huh.Form
	dir     *string
	spin    spinner.Model

	written summaryWrittenMsg
}

func NewExportModel(svc *export.Service, sheet *invoice.Sheet) ExportModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := "./invoices"

	m := ExportModel{
		writer: svc,
		sheet:  sheet,
		dir:    &dir,
		spin:   spin,
	}
	m.dirForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Summary directory").
				Description("Created when missing").
				Placeholder(dir).
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)

	return m
}

func (m ExportModel) Title() string { return "Export Summary" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case stepWriting:
		return "writing..."
	case stepDone:
		return "Esc: back to invoice"
	default:
		return "Enter: write | Esc: cancel"
	}
}

func (m ExportModel) Init() tea.Cmd {
	return m.dirForm.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.step != stepWriting {
		return m, Back
	}

	switch m.step {
	case stepChooseDir:
		next, cmd := m.dirForm.Update(msg)
		if f, ok := next.(*huh.Form); ok {
			m.dirForm = f
		}

		if m.dirForm.State == huh.StateCompleted {
			m.step = stepWriting
			return m, tea.Batch(m.spin.Tick, m.write(*m.dir))
		}

		return m, cmd

	case stepWriting:
		if done, ok := msg.(summaryWrittenMsg); ok {
			m.step = stepDone
			m.written = done

			return m, nil
		}

		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case stepChooseDir:
		return pad.Render(m.dirForm.View())
	case stepWriting:
		return pad.Render(m.spin.View() + " Writing invoice summary...")
	}

	if m.written.err != nil {
		return pad.Render(errorStyle(fmt.Sprintf("Export failed: %v", m.written.err)))
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		activeStyle("Saved "+m.written.file),
		"",
		boxed(m.written.body),
	))
}

type summaryWrittenMsg struct {
	file string
	body string
	err  error
}

func (m ExportModel) write(dir string) tea.Cmd {
	svc, sheet := m.writer, m.sheet

	return func() tea.Msg {
		file, err := svc.WriteSummary(dir, sheet)
		if err != nil {
			return summaryWrittenMsg{err: err}
		}

		return summaryWrittenMsg{file: file, body: export.Summary(sheet)}
	}
}
