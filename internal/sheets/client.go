// Package sheets wraps the Google Sheets API behind the small row store the
// publish pipeline needs: read the topic table, update one row in place.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	sheetName     string
}

func NewClient(ctx context.Context, httpClient *http.Client, spreadsheetID, sheetName string) (*Client, error) {
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ReadRows fetches the topic table (columns A:C, header skipped).
func (c *Client) ReadRows(ctx context.Context) ([]Row, error) {
	readRange := fmt.Sprintf("%s!A:C", c.sheetName)

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	rows := parseRows(resp.Values)
	logger.Debug("spreadsheet read", "rows", len(rows))
	return rows, nil
}

// UpdateRow writes content and image URL back into columns B:C of the given
// sheet row. The topic column is never touched.
func (c *Client) UpdateRow(ctx context.Context, index int, content, imageURL string) error {
	updateRange := fmt.Sprintf("%s!B%d:C%d", c.sheetName, index, index)

	body := &gsheets.ValueRange{
		Values: [][]interface{}{{content, imageURL}},
	}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, updateRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", index, err)
	}

	logger.Debug("spreadsheet row updated", "range", updateRange)
	return nil
}
