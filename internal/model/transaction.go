// Package model defines the shared data types for the family ledger.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component.
type Date struct {
	time.Time
}

// NewDate creates a Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON renders the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// TransactionType is the closed set of ledger entry kinds.
type TransactionType string

// Transaction types.
const (
	TypeIncome     TransactionType = "Income"
	TypeExpense    TransactionType = "Expense"
	TypeInvestment TransactionType = "Investment"
	TypeSavings    TransactionType = "Savings"
)

// TransactionTypes lists all valid types in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeIncome, TypeExpense, TypeInvestment, TypeSavings}
}

// ParseTransactionType validates and normalizes a type label.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, t := range TransactionTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is a single ledger entry. The server owns it; clients hold a
// read replica only. Amount sign convention: positive = inflow, negative =
// outflow. The sign is not forced to match the type - that leniency is
// deliberate and matches the server.
type Transaction struct {
	ID          int64           `json:"id"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Person      string          `json:"person"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks the invariants the server enforces on create/update.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}
