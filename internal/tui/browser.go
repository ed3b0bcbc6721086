package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/famledger-dev/famledger/internal/cli"
	"github.com/famledger-dev/famledger/internal/list"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortKeys maps browser key presses to sortable columns.
var sortKeys = map[string]string{
	"D": "date",
	"A": "amount",
	"T": "type",
	"C": "category",
	"P": "person",
}

// BrowserModel is the interactive transaction table. Loads run as bubbletea
// commands so the view stays responsive; the synchronizer's sequence guard
// keeps overlapping loads from clobbering each other.
type BrowserModel struct {
	sync    *list.Synchronizer
	table   table.Model
	banner  string
	loading bool
	width   int
	height  int
}

// NewBrowser creates the browser view over a synchronizer.
func NewBrowser(sync *list.Synchronizer) BrowserModel {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Type", Width: 10},
		{Title: "Person", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cli.SubtleColor).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	return BrowserModel{
		sync:   sync,
		table:  t,
		width:  80,
		height: 24,
	}
}

// Init issues the initial load.
func (m BrowserModel) Init() tea.Cmd {
	return m.loadCmd(func(ctx context.Context) error {
		return m.sync.Load(ctx)
	})
}

// loadCmd runs a synchronizer operation off the event loop.
func (m BrowserModel) loadCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return listLoadedMsg{err: op(context.Background())}
	}
}

// Update handles messages.
func (m BrowserModel) Update(msg tea.Msg) (BrowserModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}

	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// The failed load left the previous view intact; the banner is
			// dismissible and nothing else is blocked.
			m.banner = msg.err.Error()
		} else {
			m.banner = ""
		}
		m.refreshRows()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, m.height-6))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if field, ok := sortKeys[key]; ok {
		m.loading = true
		sync := m.sync
		return m.loadCmd(func(ctx context.Context) error {
			return sync.SortBy(ctx, field)
		})
	}

	switch key {
	case "n", "right":
		view := m.sync.Page()
		m.sync.GoToPage(view.Page + 1)
		m.refreshRows()

	case "p", "left":
		view := m.sync.Page()
		m.sync.GoToPage(view.Page - 1)
		m.refreshRows()

	case "r":
		m.loading = true
		sync := m.sync
		return m.loadCmd(func(ctx context.Context) error {
			return sync.Load(ctx)
		})

	case "x":
		m.loading = true
		sync := m.sync
		return m.loadCmd(func(ctx context.Context) error {
			return sync.ClearFilters(ctx)
		})

	case "esc":
		m.banner = ""

	case "q", "ctrl+c":
		return tea.Quit
	}

	return nil
}

// refreshRows rebuilds the table from the current page view.
func (m *BrowserModel) refreshRows() {
	view := m.sync.Page()
	rows := make([]table.Row, 0, len(view.Items))
	for _, t := range view.Items {
		rows = append(rows, transactionRow(t))
	}
	m.table.SetRows(rows)
}

func transactionRow(t model.Transaction) table.Row {
	return table.Row{
		t.Date.String(),
		string(t.Type),
		t.Person,
		t.Category,
		t.Description,
		t.Amount.StringFixed(2),
	}
}

// View renders the browser.
func (m BrowserModel) View() string {
	view := m.sync.Page()

	title := cli.FormatTitle("Transactions")
	status := fmt.Sprintf("page %d/%d  ·  %d transactions", view.Page, view.Pages, view.Total)
	if sort := m.sync.Sort(); sort.Field != "" {
		status += fmt.Sprintf("  ·  sort: %s %s", sort.Field, sort.Direction)
	}
	if m.loading {
		status += "  ·  loading…"
	}

	sections := []string{title, cli.SubtleStyle.Render(status)}
	if m.banner != "" {
		sections = append(sections, cli.BannerStyle.Render(m.banner+"  (esc to dismiss)"))
	}
	sections = append(sections, m.table.View(), m.footer(view.HasPrev, view.HasNext))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m BrowserModel) footer(hasPrev, hasNext bool) string {
	hints := []string{"[D/A/T/C/P] sort", "[r] refresh", "[x] clear filters", "[q] quit"}
	if hasPrev {
		hints = append([]string{"[p] prev"}, hints...)
	}
	if hasNext {
		hints = append([]string{"[n] next"}, hints...)
	}
	return cli.SubtleStyle.Render(strings.Join(hints, "  "))
}
