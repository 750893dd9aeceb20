// Package google mirrors month summaries into a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// lastColumn is the column of the final Header cell.
const lastColumn = "G"

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.Mirror = (*Client)(nil)

// New creates a Sheets client authenticated with a service account. Inline
// JSON wins over the credentials file; GOOGLE_APPLICATION_CREDENTIALS is the
// last resort.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Months"
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", cfg.SpreadsheetID, "sheet", sheetName)

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: sheetName}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) readMonthColumn(ctx context.Context) ([][]any, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) writeRow(ctx context.Context, row int, values []any) error {
	rng := rowRange(c.sheetName, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// UpsertMonth overwrites the month's row, or writes the first free row.
// The header is written when the sheet is empty.
func (c *Client) UpsertMonth(ctx context.Context, r ports.Row) error {
	col, err := c.readMonthColumn(ctx)
	if err != nil {
		return err
	}

	if len(col) == 0 {
		header := make([]any, len(ports.Header))
		for i, h := range ports.Header {
			header[i] = h
		}
		if err := c.writeRow(ctx, 1, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		col = [][]any{header[:1]}
	}

	row := findRow(col, r.Month)
	if row == 0 {
		row = nextFreeRow(col)
	}
	if err := c.writeRow(ctx, row, r.Values()); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Mirrored month row", "month", r.Month.String(), "row", row)
	return nil
}

// DeleteMonth clears the month's row in place. Later rows keep their position.
func (c *Client) DeleteMonth(ctx context.Context, month core.MonthKey) error {
	col, err := c.readMonthColumn(ctx)
	if err != nil {
		return err
	}
	row := findRow(col, month)
	if row == 0 {
		return nil
	}
	rng := rowRange(c.sheetName, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ListMonths(ctx context.Context) ([]core.MonthKey, error) {
	col, err := c.readMonthColumn(ctx)
	if err != nil {
		return nil, err
	}
	return parseMonths(col), nil
}
