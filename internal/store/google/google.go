package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const backendName = "sheets"

// Ensure interface conformance
var _ store.RecordStore = (*Client)(nil)

type Config struct {
	SpreadsheetID string
	SheetName     string
	CacheTTL      time.Duration
}

// Credentials selects the service account used to reach the Sheets API.
// JSON takes precedence over File; both empty falls back to
// GOOGLE_APPLICATION_CREDENTIALS.
type Credentials struct {
	JSON string
	File string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	validator     *core.Validator
	rows          cache.Cache[[]core.Transaction]
}

func New(svc *gsheet.Service, cfg Config, validator *core.Validator) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Transactions"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheet,
		validator:     validator,
		rows:          cache.New[[]core.Transaction](1, cfg.CacheTTL),
	}, nil
}

// NewService initializes a Sheets service using service account credentials.
func NewService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(creds.JSON)
	serviceAccountFile := strings.TrimSpace(creds.File)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Initialize writes the header row into an empty sheet. A sheet that already
// has a header is left as is, but a foreign header is reported as corruption.
func (c *Client) Initialize(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	columns := c.validator.Schema().Columns
	rng := c.a1(fmt.Sprintf("A1:%s1", lastColumn(len(columns))))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header %s: %w", rng, err)
	}
	if len(resp.Values) > 0 && !isBlank(toStrings(resp.Values[0])) {
		if err := checkHeader(toStrings(resp.Values[0]), columns); err != nil {
			return &core.StoreCorruptError{Backend: backendName, Row: 1, Err: err}
		}
		return nil
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Wrote ledger header to sheet", "sheet", c.sheetName)
	return nil
}

// Append adds one row after the last non-empty row of the sheet.
func (c *Client) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := c.validator.Transaction(t); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	fields := c.validator.FormatRecord(t)
	row := make([]any, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	rng := c.a1(fmt.Sprintf("A:%s", lastColumn(len(fields))))
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	c.rows.Delete(c.cacheKey())

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// LoadAll reads the whole sheet. Results are cached for the configured TTL
// and dropped on every Append from this client.
func (c *Client) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if txs, ok := c.rows.Get(c.cacheKey()); ok {
		slog.DebugContext(ctx, "Sheet rows served from cache",
			"sheet", c.sheetName, "rows", len(txs), "hits", c.rows.Stats().Hits)
		return append([]core.Transaction(nil), txs...), nil
	}

	rng := c.a1(fmt.Sprintf("A:%s", lastColumn(len(c.validator.Schema().Columns))))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	txs, err := parseRows(resp.Values, c.validator)
	if err != nil {
		return nil, err
	}
	c.rows.Set(c.cacheKey(), txs)
	return append([]core.Transaction(nil), txs...), nil
}

func (c *Client) cacheKey() string {
	return c.spreadsheetID + "/" + c.sheetName
}

// a1 builds a quoted A1 range for the ledger sheet.
func (c *Client) a1(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(c.sheetName, "'", "''"), cells)
}

// lastColumn returns the column letter for a 1-based index (up to Z).
func lastColumn(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 26 {
		n = 26
	}
	return string(rune('A' + n - 1))
}
