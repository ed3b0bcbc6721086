package tui

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/famledger-dev/famledger/internal/api"
	"github.com/famledger-dev/famledger/internal/importer"
	"github.com/famledger-dev/famledger/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	preview     *api.PreviewResult
	importCalls int
}

func (s *stubUploader) PreviewCSV(_ context.Context, _ string, _ io.Reader) (*api.PreviewResult, error) {
	return s.preview, nil
}

func (s *stubUploader) ImportCSV(_ context.Context, _ string, _ io.Reader) (*api.ImportResult, error) {
	s.importCalls++
	return &api.ImportResult{Message: "imported"}, nil
}

func previewedSession(t *testing.T, rows []model.DraftRow, fileErrors []string) (*importer.Session, *stubUploader) {
	t.Helper()
	uploader := &stubUploader{preview: &api.PreviewResult{Rows: rows, FileErrors: fileErrors}}
	session := importer.NewSession(uploader)
	session.SelectFile("test.csv", []byte("raw"))
	require.NoError(t, session.Preview(context.Background()))
	return session, uploader
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleRows() []model.DraftRow {
	return []model.DraftRow{
		{
			Date: model.NewDate(2024, time.March, 1), Type: model.TypeExpense,
			Person: "Maria", Category: "Groceries", Description: "weekly shop",
			Amount: decimal.NewFromFloat(-82.5),
		},
		{
			Date: model.NewDate(2024, time.March, 2), Type: model.TypeExpense,
			Person: "Jon", Category: "", Description: "pharmacy",
			Amount: decimal.NewFromFloat(-12),
		},
	}
}

func TestImportViewRemoveRow(t *testing.T) {
	session, _ := previewedSession(t, sampleRows(), nil)
	m := NewImport(session, nil)

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("d"))

	drafts := session.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "weekly shop", drafts[0].Description)
	assert.Equal(t, 0, m.cursor, "cursor steps back after deleting the last row")
}

func TestImportViewEditRow(t *testing.T) {
	session, _ := previewedSession(t, sampleRows(), nil)
	m := NewImport(session, nil)

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("e"))
	require.Equal(t, modeEdit, m.mode)

	m, _ = m.Update(key("category Health"))
	m, _ = m.Update(key("enter"))

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.banner)
	assert.Equal(t, "Health", session.Drafts()[1].Category)
}

func TestImportViewEditRejectsBadInput(t *testing.T) {
	session, _ := previewedSession(t, sampleRows(), nil)
	m := NewImport(session, nil)

	m, _ = m.Update(key("e"))
	m, _ = m.Update(key("amount ten"))
	m, _ = m.Update(key("enter"))

	assert.Equal(t, modeEdit, m.mode, "a bad edit keeps the input open")
	assert.NotEmpty(t, m.banner)
}

func TestImportViewCommitFlow(t *testing.T) {
	session, uploader := previewedSession(t, sampleRows(), nil)
	m := NewImport(session, nil)

	m, _ = m.Update(key("c"))
	require.Equal(t, modeConfirm, m.mode)

	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(commitDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 1, uploader.importCalls)

	m, _ = m.Update(done)
	assert.Equal(t, modeDone, m.mode)
	assert.Contains(t, m.View(), "imported")
}

func TestImportViewBlockedFile(t *testing.T) {
	session, uploader := previewedSession(t, nil, []string{"row 3: invalid date"})
	m := NewImport(session, nil)

	view := m.View()
	assert.Contains(t, view, "row 3: invalid date")

	// Commit must be unreachable from the dialog.
	m, _ = m.Update(key("c"))
	assert.Equal(t, modeList, m.mode)
	_, cmd := m.Update(key("y"))
	assert.Nil(t, cmd)
	assert.Zero(t, uploader.importCalls)
}
