package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/famledger-dev/famledger/internal/model"
)

// csvHeader matches the column layout the bulk-import endpoint expects.
var csvHeader = []string{"date", "type", "person", "category", "description", "amount"}

// MarshalDraftsCSV encodes the draft rows back into the import CSV format.
// Temp ids and row issues are client-only and never serialized.
func MarshalDraftsCSV(drafts []model.DraftRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, row := range drafts {
		record := []string{
			row.Date.String(),
			string(row.Type),
			row.Person,
			row.Category,
			row.Description,
			row.Amount.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing row %s: %w", row.TempID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
