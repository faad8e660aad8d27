package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"praktijk/internal/core"
	ports "praktijk/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base names without year (e.g. "Afspraken"); code prefixes the entry year.
	appointmentsBase string
	expensesBase     string
}

// Ensure interface conformance
var (
	_ ports.AppointmentWriter = (*Client)(nil)
	_ ports.ExpenseWriter     = (*Client)(nil)
	_ ports.Mirror            = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus OAuth client and token, each either as
// a file path (GOOGLE_OAUTH_CLIENT_FILE, GOOGLE_OAUTH_TOKEN_FILE) or inline
// JSON (GOOGLE_OAUTH_CLIENT_JSON, GOOGLE_OAUTH_TOKEN_JSON).
// Optional sheet names: GOOGLE_SHEET_NAME (default "Afspraken"),
// GOOGLE_EXPENSES_SHEET_NAME (default "Uitgaven").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	appointmentsBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if appointmentsBase == "" {
		appointmentsBase = "Afspraken"
	}
	expensesBase := strings.TrimSpace(os.Getenv("GOOGLE_EXPENSES_SHEET_NAME"))
	if expensesBase == "" {
		expensesBase = "Uitgaven"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		appointmentsBase: appointmentsBase,
		expensesBase:     expensesBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using the OAuth client and
// token produced by cmd/oauth-init.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	clientJSON, err := readEnvJSON("GOOGLE_OAUTH_CLIENT_JSON", "GOOGLE_OAUTH_CLIENT_FILE")
	if err != nil {
		return nil, fmt.Errorf("oauth client credentials: %w", err)
	}

	cfg, err := googleoauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}

	tokenJSON, err := readEnvJSON("GOOGLE_OAUTH_TOKEN_JSON", "GOOGLE_OAUTH_TOKEN_FILE")
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	httpClient := cfg.Client(ctx, &token)
	service, err := gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// readEnvJSON returns credential bytes from an inline JSON env var or, when
// that is empty, from the file named by the file env var.
func readEnvJSON(jsonKey, fileKey string) ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv(jsonKey)); inline != "" {
		return []byte(inline), nil
	}
	if file := strings.TrimSpace(os.Getenv(fileKey)); file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("set %s or %s", jsonKey, fileKey)
}

// AppendAppointment appends an appointment to the yearly appointments sheet
// and returns the written range.
func (c *Client) AppendAppointment(ctx context.Context, a core.Appointment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	sheet := yearPrefixedName(c.appointmentsBase, a.Date.Year())
	return c.appendRow(ctx, sheet, appointmentRow(a))
}

// AppendExpense appends an expense to the yearly expenses sheet and returns
// the written range.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	sheet := yearPrefixedName(c.expensesBase, e.Date.Year())
	return c.appendRow(ctx, sheet, expenseRow(e))
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row by getting the sheet dimensions first
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", sheet, err)
	}

	nextRow := len(resp.Values) + 1

	lastCol := string(rune('A' + len(row) - 1))
	dataRange := fmt.Sprintf("%s!A%d:%s%d", sheet, nextRow, lastCol, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

func appointmentRow(a core.Appointment) []any {
	reimbursable := "nee"
	if a.Reimbursable {
		reimbursable = "ja"
	}
	return []any{
		a.Date.Format("2006-01-02"),
		a.ClientName,
		a.TypeName,
		a.Quantity,
		a.Price.Euros(),
		a.Total.Euros(),
		reimbursable,
		a.Note,
	}
}

func expenseRow(e core.Expense) []any {
	return []any{
		e.Date.Format("2006-01-02"),
		e.Description,
		e.CategoryName,
		e.Amount.Euros(),
		e.PaymentMethod,
	}
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
