package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/famledger-dev/famledger/internal/model"
)

// ListCategories fetches the read-only category reference list.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListPersons fetches the read-only household member reference list.
func (c *Client) ListPersons(ctx context.Context) ([]model.Person, error) {
	var persons []model.Person
	if err := c.getJSON(ctx, "/persons", &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, "", nil, "")
	if err != nil {
		return err
	}
	body, err := c.send(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
