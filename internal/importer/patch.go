package importer

import (
	"fmt"

	"github.com/famledger-dev/famledger/internal/model"
	"github.com/shopspring/decimal"
)

// ParseFieldPatch converts a user-entered field name and value into a
// FieldPatch. Values are parsed in their domain so an edit cannot hold a
// syntactically impossible value, but no cross-field validation happens
// here - the server re-validates at commit.
func ParseFieldPatch(field, value string) (FieldPatch, error) {
	var patch FieldPatch
	switch field {
	case "date":
		d, err := model.ParseDate(value)
		if err != nil {
			return patch, err
		}
		patch.Date = &d
	case "type":
		t, err := model.ParseTransactionType(value)
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	case "person":
		patch.Person = &value
	case "category":
		patch.Category = &value
	case "description":
		patch.Description = &value
	case "amount":
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return patch, fmt.Errorf("invalid amount %q", value)
		}
		patch.Amount = &amount
	default:
		return patch, fmt.Errorf("unknown field %q", field)
	}
	return patch, nil
}

// EditableFields lists the draft row fields ParseFieldPatch accepts.
func EditableFields() []string {
	return []string{"date", "type", "person", "category", "description", "amount"}
}
