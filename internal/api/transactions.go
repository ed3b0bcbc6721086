package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/shopspring/decimal"
)

// transactionPayload is the create/update wire shape: a transaction without
// its server-assigned id.
type transactionPayload struct {
	Date        model.Date            `json:"date"`
	Type        model.TransactionType `json:"type"`
	Person      string                `json:"person"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Amount      decimal.Decimal       `json:"amount"`
}

func payloadFrom(t model.Transaction) transactionPayload {
	return transactionPayload{
		Date:        t.Date,
		Type:        t.Type,
		Person:      t.Person,
		Category:    t.Category,
		Description: t.Description,
		Amount:      t.Amount,
	}
}

// ListTransactions fetches the filtered, sorted collection. rawQuery is the
// canonical query string produced by the query builder; it is passed through
// untouched so the request is byte-identical for identical state.
func (c *Client) ListTransactions(ctx context.Context, rawQuery string) ([]model.Transaction, error) {
	var transactions []model.Transaction

	err := common.WithRetry(ctx, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/transactions", rawQuery, nil, "")
		if err != nil {
			return err
		}
		body, err := c.send(req)
		if err != nil {
			return err
		}
		transactions = transactions[:0]
		if err := json.Unmarshal(body, &transactions); err != nil {
			return fmt.Errorf("failed to decode transactions: %w", err)
		}
		return nil
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction creates a single transaction and returns the stored row.
func (c *Client) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return c.submitTransaction(ctx, http.MethodPost, "/transactions", t)
}

// UpdateTransaction replaces the transaction with the given id.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, t model.Transaction) (model.Transaction, error) {
	return c.submitTransaction(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), t)
}

func (c *Client) submitTransaction(ctx context.Context, method, path string, t model.Transaction) (model.Transaction, error) {
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}

	data, err := json.Marshal(payloadFrom(t))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, "", bytes.NewReader(data), "application/json")
	if err != nil {
		return model.Transaction{}, err
	}
	body, err := c.send(req)
	if err != nil {
		return model.Transaction{}, err
	}

	var stored model.Transaction
	if err := json.Unmarshal(body, &stored); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return stored, nil
}

// DeleteTransaction removes a transaction by id.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), "", nil, "")
	if err != nil {
		return err
	}
	if _, err := c.send(req); err != nil {
		return err
	}
	return nil
}
