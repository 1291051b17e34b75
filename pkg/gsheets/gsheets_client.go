package gsheets

import (
	"context"
	"fmt"

	"stockscreen/internal/scanerr"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client uploads scan output to a Google Sheet via a service account. The
// upload is optional and fire-and-forget from the pipeline's perspective:
// any failure comes back as scanerr.SheetUploadError and never invalidates
// the spreadsheet artifact already produced.
type Client struct {
	service       *sheets.Service
	spreadsheetId string
}

func NewClient(ctx context.Context, credentialsJson []byte, spreadsheetId string) (*Client, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJson),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetId: spreadsheetId,
	}, nil
}

// ReplaceSheet clears the first sheet and writes the given value grid
// starting at A1, mirroring a full re-publish of the scan.
func (c *Client) ReplaceSheet(ctx context.Context, values [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.
		Clear(c.spreadsheetId, "A1:Z", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return scanerr.SheetUploadError{Err: fmt.Errorf("failed to clear sheet: %w", err)}
	}

	_, err = c.service.Spreadsheets.Values.
		Update(c.spreadsheetId, "A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return scanerr.SheetUploadError{Err: fmt.Errorf("failed to write sheet values: %w", err)}
	}

	return nil
}
