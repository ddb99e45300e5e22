package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilePickModel lets the user pick a file and hands its path to load, whose
// result message is returned to the parent. A load that fails should return
// a FileLoadFailedMsg so the picker can show the error.
type FilePickModel struct {
	CommonModel

	title      string
	filePicker filepicker.Model
	load       func(path string) tea.Msg

	loading bool
	status  string
}

type FileLoadFailedMsg struct {
	Err error
}

func NewFilePickModel(title string, allowed []string, load func(path string) tea.Msg) FilePickModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = allowed
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return FilePickModel{
		title:      title,
		filePicker: fp,
		load:       load,
	}
}

func (m FilePickModel) Title() string     { return m.title }
func (m FilePickModel) ShortHelp() string { return "Esc: back | Enter: select" }

func (m FilePickModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m FilePickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case FileLoadFailedMsg:
		m.loading = false
		m.status = errorStyle(fmt.Sprintf("Error: %v", msg.Err))

		return m, nil
	}

	if m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.loading = true
		m.status = fmt.Sprintf("Loading %s...", path)

		load := m.load

		return m, func() tea.Msg { return load(path) }
	}

	return m, cmd
}

func (m FilePickModel) View() string {
	content := fmt.Sprintf("%s\n\n%s", m.title, m.filePicker.View())
	if m.status != "" {
		content += "\n" + m.status
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n(" + m.ShortHelp() + ")")
}
