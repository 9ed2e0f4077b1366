// Package google exports parking records to a Google Sheets
// spreadsheet using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"urbanpark/internal/core"
	ports "urbanpark/internal/export"
	"urbanpark/internal/reports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	receiptsSheet string
	salesSheet    string
	reportSheet   string
}

// Ensure interface conformance
var (
	_ ports.ReceiptWriter = (*Client)(nil)
	_ ports.SaleWriter    = (*Client)(nil)
	_ ports.ReportWriter  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
// Optional sheet names: GOOGLE_RECEIPTS_SHEET_NAME (default "Receipts"),
// GOOGLE_SALES_SHEET_NAME (default "PassSales"),
// GOOGLE_REPORT_SHEET_NAME (default "Profit").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	receipts := strings.TrimSpace(os.Getenv("GOOGLE_RECEIPTS_SHEET_NAME"))
	if receipts == "" {
		receipts = "Receipts"
	}
	sales := strings.TrimSpace(os.Getenv("GOOGLE_SALES_SHEET_NAME"))
	if sales == "" {
		sales = "PassSales"
	}
	report := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET_NAME"))
	if report == "" {
		report = "Profit"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		receiptsSheet: receipts,
		salesSheet:    sales,
		reportSheet:   report,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// AppendReceipt writes one receipt row:
// Ticket, Plate, Category, Entry, Exit, Fee, Rule, Pass.
func (c *Client) AppendReceipt(ctx context.Context, r core.Receipt) (string, error) {
	row := []any{
		r.TicketID,
		r.Plate,
		string(r.Category),
		r.EntryTime.Format(time.RFC3339),
		r.ExitTime.Format(time.RFC3339),
		r.Fee.Dollars(),
		r.Rule,
		r.PassInfo,
	}
	return c.appendRow(ctx, c.receiptsSheet, row)
}

// AppendSale writes one pass sale row:
// Date, Pass ID, Kind, Plate, Amount.
func (c *Client) AppendSale(ctx context.Context, s core.PassSale) (string, error) {
	row := []any{
		s.SoldOn.Format("2006-01-02"),
		s.PassID,
		string(s.Kind),
		s.Plate,
		s.Amount.Dollars(),
	}
	return c.appendRow(ctx, c.salesSheet, row)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return fmt.Sprintf("%s!A:A", sheet), nil
}

// WriteProfitReport rewrites the report sheet from row 1: a header row
// followed by one row per month.
func (c *Client) WriteProfitReport(ctx context.Context, rows []reports.ProfitRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Month", "Revenue", "Expenses", "Profit"})
	for _, r := range rows {
		values = append(values, []any{
			r.Month,
			r.Revenue.Dollars(),
			r.Expenses.Dollars(),
			r.Profit.Dollars(),
		})
	}

	rng := fmt.Sprintf("%s!A1:D%d", c.reportSheet, len(values))
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", c.reportSheet, err)
	}

	slog.InfoContext(ctx, "Profit report exported",
		"sheet", c.reportSheet,
		"months", len(rows))
	return nil
}
