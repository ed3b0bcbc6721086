// Package api implements the HTTP client for the family ledger backend.
// The backend is the authoritative store; this package only moves data and
// maps transport failures onto the shared error taxonomy.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks JSON numbers for amounts, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Client talks to the ledger backend. The bearer token is an injected
// read-only capability; there is no ambient session state.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given base URL and bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// Unwrap maps well-known status codes onto sentinel errors so callers can
// use errors.Is and the retry helper can classify transient failures.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return common.ErrNotFound
	case e.Status == http.StatusTooManyRequests:
		return common.ErrRateLimit
	case e.Status >= 500:
		return common.ErrServerUnavailable
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send executes the request and returns the response body, or an *APIError
// for non-2xx responses.
func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// uploadFile sends contents as a multipart "file" field.
func (c *Client) uploadFile(ctx context.Context, path, filename string, file io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, "", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return c.send(req)
}
