package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSink pushes monthly reports to a Google spreadsheet. Each report
// becomes one summary row plus one row per category on a year-prefixed
// sheet, e.g. "2025 Relatórios".
type SheetsSink struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

var _ Sink = (*SheetsSink)(nil)

// NewSheetsSink creates a sink for the given spreadsheet using
// service-account credentials from the environment
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
func NewSheetsSink(ctx context.Context, spreadsheetID, sheetBase string) (*SheetsSink, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	sheetBase = strings.TrimSpace(sheetBase)
	if sheetBase == "" {
		sheetBase = "Relatórios"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsSink{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
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

// Push implements Sink. Rows are appended below whatever the sheet already
// holds; re-exporting a month appends a fresh block rather than editing the
// old one.
func (s *SheetsSink) Push(ctx context.Context, r MonthlyReport) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName, err := s.sheetNameFor(r.Month)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get sheet dimensions for %s: %w", sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	rows := [][]any{{
		r.Month,
		r.Income.Reais(),
		r.Expense.Reais(),
		r.Balance.Reais(),
		r.Score,
		r.Feedback,
		r.GeneratedAt.Format(time.RFC3339),
	}}
	for _, cat := range r.ByCategory {
		rows = append(rows, []any{r.Month, cat.Category, cat.Amount.Reais()})
	}

	dataRange := fmt.Sprintf("%s!A%d:G%d", sheetName, nextRow, nextRow+len(rows)-1)
	vr := &gsheet.ValueRange{Values: rows}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", dataRange, err)
	}

	slog.InfoContext(ctx, "Report pushed to spreadsheet",
		"month", r.Month,
		"sheet", sheetName,
		"rows", len(rows))
	return nil
}

// sheetNameFor derives the year-prefixed sheet name from the report month.
func (s *SheetsSink) sheetNameFor(month string) (string, error) {
	if len(month) < 4 {
		return "", fmt.Errorf("invalid month %q", month)
	}
	year, err := strconv.Atoi(month[:4])
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	return yearPrefixedName(s.sheetBase, year), nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a
// 4-digit year.
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
