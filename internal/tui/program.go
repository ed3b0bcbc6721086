package tui

import tea "github.com/charmbracelet/bubbletea"

// viewModel is a concrete view model whose Update returns its own type, so
// tests can drive it without type assertions.
type viewModel[M any] interface {
	Init() tea.Cmd
	Update(tea.Msg) (M, tea.Cmd)
	View() string
}

type root[M viewModel[M]] struct {
	model M
}

// Root adapts a concrete view model to tea.Model for tea.NewProgram.
func Root[M viewModel[M]](model M) tea.Model {
	return root[M]{model: model}
}

func (r root[M]) Init() tea.Cmd {
	return r.model.Init()
}

func (r root[M]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := r.model.Update(msg)
	r.model = model
	return r, cmd
}

func (r root[M]) View() string {
	return r.model.View()
}
