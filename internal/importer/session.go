// Package importer runs the two-phase CSV bulk-import workflow: preview the
// file against the server-side validator, let the user correct the draft
// rows in memory, then commit the corrected set.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/famledger-dev/famledger/internal/api"
	"github.com/famledger-dev/famledger/internal/common"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Uploader is the slice of the API client the session needs.
type Uploader interface {
	PreviewCSV(ctx context.Context, filename string, file io.Reader) (*api.PreviewResult, error)
	ImportCSV(ctx context.Context, filename string, file io.Reader) (*api.ImportResult, error)
}

// State is the import session lifecycle.
type State int

// Session states.
const (
	StateIdle State = iota
	StateFileSelected
	StatePreviewing
	StatePreviewReady
	StateEditing
	StateCommitting
	StateCommitted
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateFileSelected: "file selected",
	StatePreviewing:   "previewing",
	StatePreviewReady: "preview ready",
	StateEditing:      "editing",
	StateCommitting:   "committing",
	StateCommitted:    "committed",
	StateFailed:       "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session errors.
var (
	// ErrUnknownDraft means an edit or removal referenced a temp id that is
	// not in the draft set. That is a programmer error, surfaced loudly.
	ErrUnknownDraft = errors.New("unknown draft row")
	// ErrPreviewBlocked means the file failed validation at the file level;
	// a corrected file must be selected before anything else can happen.
	ErrPreviewBlocked = errors.New("preview blocked by file errors")
	// ErrNoFile means no file has been selected yet.
	ErrNoFile = errors.New("no file selected")
	// ErrNotEditable means the session is not in a state that accepts draft
	// edits or a commit.
	ErrNotEditable = errors.New("session is not editable")
)

// FieldPatch updates a subset of a draft row's fields. Nil pointers leave
// the field unchanged. Edited values are trusted until commit, where the
// server re-validates authoritatively.
type FieldPatch struct {
	Date        *model.Date
	Type        *model.TransactionType
	Person      *string
	Category    *string
	Description *string
	Amount      *decimal.Decimal
}

// Session is the single mutable import state per dialog. It is not
// goroutine-safe: imports are a deliberate, attended, single-user action
// driven from one event loop. Selecting a new file discards an uncommitted
// session.
type Session struct {
	uploader Uploader
	newID    func() string

	state        State
	filename     string
	contents     []byte
	drafts       []model.DraftRow
	fileErrors   []string
	commitErrors []string
	message      string
}

// NewSession creates an idle import session.
func NewSession(uploader Uploader) *Session {
	return &Session{
		uploader: uploader,
		newID:    uuid.NewString,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Filename returns the selected file's name.
func (s *Session) Filename() string { return s.filename }

// FileErrors returns the blocking file-level validation errors, verbatim.
func (s *Session) FileErrors() []string {
	return append([]string(nil), s.fileErrors...)
}

// CommitErrors returns the server's structured commit rejection, verbatim.
func (s *Session) CommitErrors() []string {
	return append([]string(nil), s.commitErrors...)
}

// Message returns the server's success acknowledgment after a commit.
func (s *Session) Message() string { return s.message }

// Drafts returns a copy of the current draft set.
func (s *Session) Drafts() []model.DraftRow {
	return append([]model.DraftRow(nil), s.drafts...)
}

// Blocked reports whether file-level errors make commit unreachable.
func (s *Session) Blocked() bool { return len(s.fileErrors) > 0 }

// SelectFile starts a session over: any uncommitted drafts are discarded.
func (s *Session) SelectFile(name string, contents []byte) {
	s.Reset()
	s.filename = name
	s.contents = contents
	s.state = StateFileSelected
}

// Reset returns the session to idle, dropping all transient state.
func (s *Session) Reset() {
	s.state = StateIdle
	s.filename = ""
	s.contents = nil
	s.drafts = nil
	s.fileErrors = nil
	s.commitErrors = nil
	s.message = ""
}

// Preview sends the selected file to the validator and materializes the
// parsed rows as editable drafts, each keyed by a fresh client-local temp
// id. File-level errors are blocking: no drafts are created and commit is
// unreachable until a corrected file is selected. Row-level issues are
// advisory: flagged rows are kept and editable.
func (s *Session) Preview(ctx context.Context) error {
	if s.state != StateFileSelected {
		return fmt.Errorf("%w: preview requires a selected file (state: %s)", ErrNoFile, s.state)
	}

	s.state = StatePreviewing
	result, err := s.uploader.PreviewCSV(ctx, s.filename, bytes.NewReader(s.contents))
	if err != nil {
		// Transport failure is recoverable: the file stays selected.
		s.state = StateFileSelected
		return common.NewUserError("failed to preview file", err)
	}

	s.state = StatePreviewReady
	if len(result.FileErrors) > 0 {
		s.fileErrors = append([]string(nil), result.FileErrors...)
		s.drafts = nil
		return nil
	}

	s.drafts = make([]model.DraftRow, len(result.Rows))
	for i, row := range result.Rows {
		row.TempID = s.newID()
		s.drafts[i] = row
	}
	return nil
}

// Edit applies a patch to the draft row with the given temp id.
func (s *Session) Edit(tempID string, patch FieldPatch) error {
	if err := s.editable(); err != nil {
		return err
	}

	idx := s.indexOf(tempID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDraft, tempID)
	}

	row := &s.drafts[idx]
	if patch.Date != nil {
		row.Date = *patch.Date
	}
	if patch.Type != nil {
		row.Type = *patch.Type
	}
	if patch.Person != nil {
		row.Person = *patch.Person
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Amount != nil {
		row.Amount = *patch.Amount
	}

	s.state = StateEditing
	return nil
}

// Remove deletes the draft row with the given temp id. Removing the last
// row is legal; committing the resulting empty set is not.
func (s *Session) Remove(tempID string) error {
	if err := s.editable(); err != nil {
		return err
	}

	idx := s.indexOf(tempID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDraft, tempID)
	}

	s.drafts = append(s.drafts[:idx], s.drafts[idx+1:]...)
	s.state = StateEditing
	return nil
}

// Commit serializes the current draft set - with all edits and removals
// applied - back to CSV and submits it to the bulk-import endpoint. On
// rejection the drafts are retained so the user can retry.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.editable(); err != nil {
		return err
	}
	if len(s.drafts) == 0 {
		return common.ErrNothingToImport
	}

	payload, err := MarshalDraftsCSV(s.drafts)
	if err != nil {
		return fmt.Errorf("failed to encode drafts: %w", err)
	}

	s.state = StateCommitting
	result, err := s.uploader.ImportCSV(ctx, s.filename, bytes.NewReader(payload))
	if err != nil {
		s.state = StateFailed
		var validationErr *common.ImportValidationError
		if errors.As(err, &validationErr) {
			s.commitErrors = append([]string(nil), validationErr.Errors...)
		}
		return common.NewUserError("import failed", err)
	}

	s.state = StateCommitted
	s.message = result.Message
	return nil
}

// editable gates edits, removals and commits on the session state.
func (s *Session) editable() error {
	if s.Blocked() {
		return ErrPreviewBlocked
	}
	switch s.state {
	case StatePreviewReady, StateEditing, StateFailed:
		// StateFailed allows retry after a rejected commit.
		return nil
	default:
		return fmt.Errorf("%w (state: %s)", ErrNotEditable, s.state)
	}
}

func (s *Session) indexOf(tempID string) int {
	for i := range s.drafts {
		if s.drafts[i].TempID == tempID {
			return i
		}
	}
	return -1
}
