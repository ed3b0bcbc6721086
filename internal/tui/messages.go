// Package tui provides the interactive terminal views over the list
// synchronizer and the import session. All rendering lives here; the
// consistency logic stays in internal/list and internal/importer.
package tui

// listLoadedMsg reports a finished synchronizer load.
type listLoadedMsg struct {
	err error
}

// commitDoneMsg reports a finished import commit.
type commitDoneMsg struct {
	err error
}

// listRefreshedMsg reports the post-commit list reload.
type listRefreshedMsg struct {
	err error
}
