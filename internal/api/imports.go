package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/famledger-dev/famledger/internal/common"
	"github.com/famledger-dev/famledger/internal/model"
)

// PreviewResult is the validator's verdict on an uploaded CSV file. Rows
// come back without TempIDs; the import session assigns those. FileErrors
// are blocking: when non-empty, Rows is empty and no commit is possible.
type PreviewResult struct {
	Rows       []model.DraftRow
	FileErrors []string
}

type previewResponse struct {
	ValidTransactions []model.DraftRow `json:"valid_transactions"`
	Errors            []string         `json:"errors"`
}

// PreviewCSV submits the raw file for server-side validation. No client-side
// CSV parsing happens here; the response is authoritative for what rows
// exist and how their fields parsed.
func (c *Client) PreviewCSV(ctx context.Context, filename string, file io.Reader) (*PreviewResult, error) {
	body, err := c.uploadFile(ctx, "/transactions/preview-csv", filename, file)
	if err != nil {
		return nil, err
	}

	var resp previewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode preview: %w", err)
	}

	if len(resp.Errors) > 0 {
		// File-level failure: never partial success.
		return &PreviewResult{FileErrors: resp.Errors}, nil
	}
	return &PreviewResult{Rows: resp.ValidTransactions}, nil
}

// ImportResult is a successful bulk import acknowledgment.
type ImportResult struct {
	Message    string          `json:"message"`
	SampleData json.RawMessage `json:"sample_data,omitempty"`
}

type importErrorDetail struct {
	Detail struct {
		Errors []string `json:"errors"`
	} `json:"detail"`
}

// ImportCSV submits the file to the bulk-import endpoint. A structured
// validation rejection is returned as *common.ImportValidationError with
// the server's messages verbatim.
func (c *Client) ImportCSV(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	body, err := c.uploadFile(ctx, "/transactions/import-csv", filename, file)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			var detail importErrorDetail
			if jsonErr := json.Unmarshal([]byte(apiErr.Body), &detail); jsonErr == nil && len(detail.Detail.Errors) > 0 {
				return nil, &common.ImportValidationError{Errors: detail.Detail.Errors}
			}
		}
		return nil, err
	}

	var result ImportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode import result: %w", err)
	}
	return &result, nil
}
