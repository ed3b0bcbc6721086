package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/famledger-dev/famledger/internal/cli"
	"github.com/famledger-dev/famledger/internal/importer"
	"github.com/famledger-dev/famledger/internal/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// importMode is the current import dialog mode.
type importMode int

const (
	modeList importMode = iota
	modeEdit
	modeConfirm
	modeDone
)

// ImportModel is the reconciliation dialog over a previewed import session.
// The session must already be in its preview-ready state; file-level
// failures render as a blocking banner with no drafts.
type ImportModel struct {
	session *importer.Session
	sync    *list.Synchronizer
	input   textinput.Model
	banner  string
	cursor  int
	mode    importMode
}

// NewImport creates the dialog. sync may be nil when no list view needs
// refreshing after the commit.
func NewImport(session *importer.Session, sync *list.Synchronizer) ImportModel {
	input := textinput.New()
	input.Placeholder = "field value   (e.g. category Health)"
	input.CharLimit = 120

	return ImportModel{
		session: session,
		sync:    sync,
		input:   input,
	}
}

// Init implements tea.Model.
func (m ImportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ImportModel) Update(msg tea.Msg) (ImportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m, m.handleListMode(msg)
		case modeEdit:
			return m.handleEditMode(msg)
		case modeConfirm:
			return m, m.handleConfirmMode(msg)
		case modeDone:
			if msg.String() == "q" || msg.String() == "enter" {
				return m, tea.Quit
			}
		}

	case commitDoneMsg:
		if msg.err != nil {
			m.mode = modeList
			m.banner = msg.err.Error()
			return m, nil
		}
		m.mode = modeDone
		m.banner = ""
		if m.sync != nil {
			sync := m.sync
			return m, func() tea.Msg {
				return listRefreshedMsg{err: sync.Load(context.Background())}
			}
		}

	case listRefreshedMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
		}
	}

	return m, nil
}

func (m *ImportModel) handleListMode(msg tea.KeyMsg) tea.Cmd {
	drafts := m.session.Drafts()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(drafts)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "e":
		if m.session.Blocked() || len(drafts) == 0 {
			return nil
		}
		m.mode = modeEdit
		m.input.SetValue("")
		m.input.Focus()
		return textinput.Blink

	case "d":
		if len(drafts) == 0 {
			return nil
		}
		if err := m.session.Remove(drafts[m.cursor].TempID); err != nil {
			m.banner = err.Error()
			return nil
		}
		if m.cursor >= len(drafts)-1 && m.cursor > 0 {
			m.cursor--
		}
		m.banner = ""

	case "c":
		if m.session.Blocked() || len(drafts) == 0 {
			return nil
		}
		m.mode = modeConfirm

	case "esc":
		m.banner = ""

	case "q", "ctrl+c":
		return tea.Quit
	}

	return nil
}

func (m ImportModel) handleEditMode(msg tea.KeyMsg) (ImportModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		field, value, ok := strings.Cut(strings.TrimSpace(m.input.Value()), " ")
		if !ok {
			m.banner = "expected: field value"
			return m, nil
		}
		patch, err := importer.ParseFieldPatch(field, strings.TrimSpace(value))
		if err != nil {
			m.banner = err.Error()
			return m, nil
		}

		drafts := m.session.Drafts()
		if err := m.session.Edit(drafts[m.cursor].TempID, patch); err != nil {
			m.banner = err.Error()
			return m, nil
		}
		m.banner = ""
		m.mode = modeList
		m.input.Blur()

	case "esc":
		m.mode = modeList
		m.input.Blur()

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *ImportModel) handleConfirmMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y":
		session := m.session
		return func() tea.Msg {
			return commitDoneMsg{err: session.Commit(context.Background())}
		}
	case "n", "esc":
		m.mode = modeList
	}
	return nil
}

// View renders the dialog.
func (m ImportModel) View() string {
	title := cli.FormatTitle(fmt.Sprintf("Import %s", m.session.Filename()))

	if m.session.Blocked() {
		lines := []string{title, cli.FormatError("the file failed validation:")}
		for _, e := range m.session.FileErrors() {
			lines = append(lines, cli.BannerStyle.Render(e))
		}
		lines = append(lines, cli.SubtleStyle.Render("select a corrected file and retry  ·  [q] quit"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if m.mode == modeDone {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			cli.FormatSuccess(m.session.Message()),
			cli.SubtleStyle.Render("[q] quit"),
		)
	}

	sections := []string{title, m.renderDrafts()}

	for _, e := range m.session.CommitErrors() {
		sections = append(sections, cli.BannerStyle.Render(e))
	}
	if m.banner != "" {
		sections = append(sections, cli.BannerStyle.Render(m.banner+"  (esc to dismiss)"))
	}

	switch m.mode {
	case modeEdit:
		sections = append(sections,
			cli.SubtleStyle.Render("edit row "+fmt.Sprint(m.cursor+1)),
			m.input.View())
	case modeConfirm:
		sections = append(sections,
			cli.WarningStyle.Render(fmt.Sprintf("Commit %d rows? [y/n]", len(m.session.Drafts()))))
	default:
		sections = append(sections,
			cli.SubtleStyle.Render("[↑↓] move  [e] edit  [d] delete  [c] commit  [q] abort"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ImportModel) renderDrafts() string {
	drafts := m.session.Drafts()
	if len(drafts) == 0 {
		return cli.SubtleStyle.Render("(no rows left - aborting is the only option)")
	}

	lines := make([]string, 0, len(drafts))
	for i, d := range drafts {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-10s  %-10s  %-12s  %-16s  %-28s  %10s",
			marker, d.Date, d.Type, d.Person, d.Category, d.Description, d.Amount.StringFixed(2))
		if d.Flagged() {
			line += "  " + cli.FormatWarning(strings.Join(d.Issues, "; "))
		}
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
