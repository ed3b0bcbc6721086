package model

import (
	"github.com/shopspring/decimal"
)

// DraftRow is a not-yet-persisted transaction candidate produced by CSV
// preview. TempID keys edits and removals before commit; it is client-only
// and never sent to the server. Issues carries advisory row-level validator
// flags - flagged rows stay visible and editable.
type DraftRow struct {
	TempID      string          `json:"-"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Person      string          `json:"person"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Issues      []string        `json:"issues,omitempty"`
}

// Flagged reports whether the validator attached row-level issues.
func (r *DraftRow) Flagged() bool {
	return len(r.Issues) > 0
}
