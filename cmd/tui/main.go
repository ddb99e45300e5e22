package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/source"
	"github.com/MrJamesThe3rd/invoicer/internal/timesheet"
)

type model struct {
	appName        string
	invoiceService *invoice.Service
	exportService  *export.Service

	currentView View

	templatesView view.TemplatesModel
	payloadView   view.FilePickModel
	sheetView     view.SheetModel
	timesheetView view.FilePickModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewTemplates View = 1
	ViewPayload   View = 2
	ViewSheet     View = 3
	ViewTimesheet View = 4
	ViewExport    View = 5
)

func initialModel() (model, func() error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file when LOG_FILE is set.
	var logOut io.Writer = io.Discard
	if cfg.App.LogFile != "" {
		if f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logOut = f
		}
	}

	logging.Setup(logOut, cfg.App.LogLevel)

	repo, closer, err := source.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open template source: %v\n", err)
		os.Exit(1)
	}

	invoiceSvc := invoice.NewService(repo)

	return model{
		appName:        cfg.App.Name,
		invoiceService: invoiceSvc,
		exportService:  export.NewService(),
		currentView:    ViewMenu,
	}, closer
}

func loadPayload(path string) tea.Msg {
	f, err := os.Open(path)
	if err != nil {
		return view.FileLoadFailedMsg{Err: err}
	}
	defer f.Close()

	p, err := invoice.DecodePayload(f)
	if err != nil {
		return view.FileLoadFailedMsg{Err: err}
	}

	return view.SheetOpenedMsg{Sheet: invoice.NewSheet(p)}
}

func loadTimesheet(path string) tea.Msg {
	f, err := os.Open(path)
	if err != nil {
		return view.FileLoadFailedMsg{Err: err}
	}
	defer f.Close()

	durations, err := timesheet.NewParser().Parse(f)
	if err != nil {
		return view.FileLoadFailedMsg{Err: err}
	}

	return view.DurationsLoadedMsg{Path: path, Durations: durations}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTemplates
				m.templatesView = view.NewTemplatesModel(m.invoiceService)

				return m, m.templatesView.Init()
			case "2":
				m.currentView = ViewPayload
				m.payloadView = view.NewFilePickModel("Open Payload File", []string{".json"}, loadPayload)

				return m, m.payloadView.Init()
			}
		}

	case view.SheetOpenedMsg:
		m.currentView = ViewSheet
		m.sheetView = view.NewSheetModel(msg.Sheet)

		return m, m.sheetView.Init()

	case view.ImportTimesheetMsg:
		m.currentView = ViewTimesheet
		m.timesheetView = view.NewFilePickModel("Import Timesheet", []string{".csv", ".txt"}, loadTimesheet)

		return m, m.timesheetView.Init()

	case view.DurationsLoadedMsg:
		m.currentView = ViewSheet

	case view.ExportSheetMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, msg.Sheet)

		return m, m.exportView.Init()

	case view.BackMsg:
		switch m.currentView {
		case ViewTimesheet, ViewExport:
			m.currentView = ViewSheet
		default:
			m.currentView = ViewMenu
		}

		return m, nil
	}

	switch m.currentView {
	case ViewTemplates:
		var newModel tea.Model
		newModel, cmd = m.templatesView.Update(msg)
		m.templatesView = newModel.(view.TemplatesModel)
	case ViewPayload:
		var newModel tea.Model
		newModel, cmd = m.payloadView.Update(msg)
		m.payloadView = newModel.(view.FilePickModel)
	case ViewSheet:
		var newModel tea.Model
		newModel, cmd = m.sheetView.Update(msg)
		m.sheetView = newModel.(view.SheetModel)
	case ViewTimesheet:
		var newModel tea.Model
		newModel, cmd = m.timesheetView.Update(msg)
		m.timesheetView = newModel.(view.FilePickModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Open Template\n" +
				"2. Open Payload File\n\n" +
				"q. Quit",
		)
	case ViewTemplates:
		return m.templatesView.View()
	case ViewPayload:
		return m.payloadView.View()
	case ViewSheet:
		return m.sheetView.View()
	case ViewTimesheet:
		return m.timesheetView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	m, closeDB := initialModel()
	defer closeDB()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
