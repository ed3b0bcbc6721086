package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/famledger-dev/famledger/internal/api"
	"github.com/famledger-dev/famledger/internal/common"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	previewResult *api.PreviewResult
	previewErr    error
	importResult  *api.ImportResult
	importErr     error

	importedName string
	importedBody []byte
	importCalls  int
}

func (f *fakeUploader) PreviewCSV(_ context.Context, _ string, _ io.Reader) (*api.PreviewResult, error) {
	if f.previewErr != nil {
		return nil, f.previewErr
	}
	return f.previewResult, nil
}

func (f *fakeUploader) ImportCSV(_ context.Context, filename string, file io.Reader) (*api.ImportResult, error) {
	f.importCalls++
	f.importedName = filename
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.importedBody = body
	if f.importErr != nil {
		return nil, f.importErr
	}
	return f.importResult, nil
}

func draftRow(day int, category, description string, amount float64) model.DraftRow {
	return model.DraftRow{
		Date:        model.NewDate(2024, time.March, day),
		Type:        model.TypeExpense,
		Person:      "Maria",
		Category:    category,
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
	}
}

// newTestSession returns a session with deterministic temp ids row-1, row-2...
func newTestSession(u Uploader) *Session {
	s := NewSession(u)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("row-%d", n)
	}
	return s
}

func TestPreviewAssignsTempIDs(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{
			draftRow(1, "Groceries", "weekly shop", -82.5),
			draftRow(2, "Transport", "bus pass", -30),
		},
	}}

	s := NewSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	assert.Equal(t, StatePreviewReady, s.State())
	drafts := s.Drafts()
	require.Len(t, drafts, 2)
	assert.NotEmpty(t, drafts[0].TempID)
	assert.NotEmpty(t, drafts[1].TempID)
	assert.NotEqual(t, drafts[0].TempID, drafts[1].TempID)
}

func TestPreviewFileErrorBlocksEverything(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		FileErrors: []string{"row 3: invalid date"},
	}}

	s := newTestSession(uploader)
	s.SelectFile("bad.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	assert.True(t, s.Blocked())
	assert.Empty(t, s.Drafts(), "file-level errors must not produce draft rows")
	assert.Equal(t, []string{"row 3: invalid date"}, s.FileErrors())

	assert.ErrorIs(t, s.Commit(context.Background()), ErrPreviewBlocked)
	assert.ErrorIs(t, s.Edit("row-1", FieldPatch{}), ErrPreviewBlocked)
	assert.ErrorIs(t, s.Remove("row-1"), ErrPreviewBlocked)
	assert.Zero(t, uploader.importCalls, "commit must be unreachable")

	// Selecting a corrected file unblocks the workflow.
	s.SelectFile("fixed.csv", []byte("raw2"))
	assert.False(t, s.Blocked())
	assert.Equal(t, StateFileSelected, s.State())
}

func TestPreviewEditRemoveScenario(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{
			draftRow(1, "Groceries", "weekly shop", -82.5),
			draftRow(2, "", "pharmacy", -12),
			draftRow(3, "Transport", "bus pass", -30),
		},
	}}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	health := "Health"
	require.NoError(t, s.Edit("row-2", FieldPatch{Category: &health}))
	require.NoError(t, s.Remove("row-3"))

	drafts := s.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "Health", drafts[1].Category)
	assert.Equal(t, "pharmacy", drafts[1].Description, "unpatched fields stay put")
	for _, d := range drafts {
		assert.NotEqual(t, "row-3", d.TempID, "removed temp id must be gone")
	}
	assert.Equal(t, StateEditing, s.State())
}

func TestEditUnknownTempIDFailsLoudly(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5)},
	}}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	assert.ErrorIs(t, s.Edit("nope", FieldPatch{}), ErrUnknownDraft)
	assert.ErrorIs(t, s.Remove("nope"), ErrUnknownDraft)
	assert.Len(t, s.Drafts(), 1, "a failed edit must not change the draft set")
}

func TestPreviewKeepsFlaggedRows(t *testing.T) {
	flagged := draftRow(2, "", "unknown shop", -10)
	flagged.Issues = []string{"missing category"}

	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5), flagged},
	}}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	drafts := s.Drafts()
	require.Len(t, drafts, 2, "row-level issues are advisory; flagged rows are kept")
	assert.True(t, drafts[1].Flagged())
	assert.False(t, s.Blocked())

	// Flagged rows are editable like any other.
	groceries := "Groceries"
	require.NoError(t, s.Edit("row-2", FieldPatch{Category: &groceries}))
}

func TestCommitSubmitsEditedRows(t *testing.T) {
	uploader := &fakeUploader{
		previewResult: &api.PreviewResult{
			Rows: []model.DraftRow{
				draftRow(1, "Groceries", "weekly shop", -82.5),
				draftRow(2, "", "pharmacy", -12),
				draftRow(3, "Transport", "bus pass", -30),
			},
		},
		importResult: &api.ImportResult{Message: "imported 2 transactions"},
	}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("original file bytes"))
	require.NoError(t, s.Preview(context.Background()))

	health := "Health"
	amount := decimal.NewFromFloat(-14.2)
	require.NoError(t, s.Edit("row-2", FieldPatch{Category: &health, Amount: &amount}))
	require.NoError(t, s.Remove("row-3"))
	require.NoError(t, s.Commit(context.Background()))

	assert.Equal(t, StateCommitted, s.State())
	assert.Equal(t, "imported 2 transactions", s.Message())
	assert.Equal(t, "march.csv", uploader.importedName)

	// The commit payload is the edited draft set, not the original upload.
	assert.NotEqual(t, []byte("original file bytes"), uploader.importedBody)

	records, err := csv.NewReader(bytes.NewReader(uploader.importedBody)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus the two surviving rows")
	assert.Equal(t, []string{"date", "type", "person", "category", "description", "amount"}, records[0])
	assert.Equal(t, []string{"2024-03-01", "Expense", "Maria", "Groceries", "weekly shop", "-82.5"}, records[1])
	assert.Equal(t, []string{"2024-03-02", "Expense", "Maria", "Health", "pharmacy", "-14.2"}, records[2])
}

func TestCommitEmptyDraftSetRejected(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5)},
	}}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))
	require.NoError(t, s.Remove("row-1"))

	assert.ErrorIs(t, s.Commit(context.Background()), common.ErrNothingToImport)
	assert.Zero(t, uploader.importCalls)
}

func TestCommitFailureRetainsDraftsForRetry(t *testing.T) {
	uploader := &fakeUploader{
		previewResult: &api.PreviewResult{
			Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5)},
		},
		importErr: &common.ImportValidationError{Errors: []string{"row 1: duplicate transaction"}},
	}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))

	err := s.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, []string{"row 1: duplicate transaction"}, s.CommitErrors())
	assert.Len(t, s.Drafts(), 1, "a failed commit must not clear the draft session")

	// Retry succeeds once the server stops rejecting.
	uploader.importErr = nil
	uploader.importResult = &api.ImportResult{Message: "imported 1 transactions"}
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, StateCommitted, s.State())
	assert.Equal(t, 2, uploader.importCalls)
}

func TestPreviewTransportFailureIsRecoverable(t *testing.T) {
	uploader := &fakeUploader{previewErr: errors.New("connection refused")}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))

	require.Error(t, s.Preview(context.Background()))
	assert.Equal(t, StateFileSelected, s.State(), "the selected file survives a transport failure")

	uploader.previewErr = nil
	uploader.previewResult = &api.PreviewResult{
		Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5)},
	}
	require.NoError(t, s.Preview(context.Background()))
	assert.Equal(t, StatePreviewReady, s.State())
}

func TestSelectFileDiscardsUncommittedSession(t *testing.T) {
	uploader := &fakeUploader{previewResult: &api.PreviewResult{
		Rows: []model.DraftRow{draftRow(1, "Groceries", "weekly shop", -82.5)},
	}}

	s := newTestSession(uploader)
	s.SelectFile("march.csv", []byte("raw"))
	require.NoError(t, s.Preview(context.Background()))
	require.Len(t, s.Drafts(), 1)

	s.SelectFile("april.csv", []byte("raw2"))
	assert.Equal(t, StateFileSelected, s.State())
	assert.Empty(t, s.Drafts())
	assert.Equal(t, "april.csv", s.Filename())
}

func TestPreviewRequiresSelectedFile(t *testing.T) {
	s := newTestSession(&fakeUploader{})
	assert.ErrorIs(t, s.Preview(context.Background()), ErrNoFile)
}

func TestCommitBeforePreviewRejected(t *testing.T) {
	s := newTestSession(&fakeUploader{})
	s.SelectFile("march.csv", []byte("raw"))
	assert.ErrorIs(t, s.Commit(context.Background()), ErrNotEditable)
}
