package googlesheets

import (
	"context"
	"fmt"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Config identifies the spreadsheet backing the store.
type Config struct {
	SpreadsheetID string
}

// Dialer creates Google Sheets transports. Auth is supplied as client
// options; see auth.go for the usual constructors.
type Dialer struct {
	config Config
	opts   []option.ClientOption
}

// NewDialer creates a dialer with the provided client options.
func NewDialer(config Config, opts ...option.ClientOption) *Dialer {
	return &Dialer{config: config, opts: opts}
}

// Dial builds the sheets service and verifies the spreadsheet is
// reachable, so credential problems surface at connect time rather
// than on the first operation.
func (d *Dialer) Dial(ctx context.Context) (sheetdb.Transport, error) {
	service, err := sheets.NewService(ctx, d.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if _, err := service.Spreadsheets.Get(d.config.SpreadsheetID).
		Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("spreadsheet %s unreachable: %w", d.config.SpreadsheetID, err)
	}

	return &Transport{service: service, spreadsheetID: d.config.SpreadsheetID}, nil
}

// Transport implements sheetdb.Transport over the Sheets v4 API.
type Transport struct {
	service       *sheets.Service
	spreadsheetID string
}

// EnsureSheet creates the named tab if the spreadsheet does not have it.
func (t *Transport) EnsureSheet(ctx context.Context, sheet string) error {
	_, exists, err := t.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}
	if _, err := t.service.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}
	return nil
}

// ReadHeader returns the first row of the tab.
func (t *Transport) ReadHeader(ctx context.Context, sheet string) ([]string, error) {
	readRange := fmt.Sprintf("%s!1:1", sheet)
	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(resp.Values) == 0 {
		return []string{}, nil
	}
	return toStrings(resp.Values[0]), nil
}

// WriteHeader writes the header row starting at A1.
func (t *Transport) WriteHeader(ctx context.Context, sheet string, columns []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(columns)}}
	writeRange := fmt.Sprintf("%s!A1", sheet)
	_, err := t.service.Spreadsheets.Values.Update(t.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// AppendRow appends one row after the last row with content.
func (t *Transport) AppendRow(ctx context.Context, sheet string, values []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	appendRange := fmt.Sprintf("%s!A:ZZ", sheet)
	_, err := t.service.Spreadsheets.Values.Append(t.spreadsheetID, appendRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// ReadRows returns all rows of the tab including the header.
func (t *Transport) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:ZZ", sheet)
	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, toStrings(row))
	}
	return rows, nil
}

// WriteCells issues every cell overwrite in one batchUpdate request.
func (t *Transport) WriteCells(ctx context.Context, sheet string, writes []sheetdb.CellWrite) error {
	if len(writes) == 0 {
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(writes))
	for _, w := range writes {
		cell := fmt.Sprintf("%s!%s%d", sheet, columnName(w.Col), w.Row)
		data = append(data, &sheets.ValueRange{
			Range:  cell,
			Values: [][]interface{}{{w.Value}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := t.service.Spreadsheets.Values.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to write cells: %w", err)
	}
	return nil
}

// ClearSheet deletes the tab and recreates it empty in one atomic
// batchUpdate.
func (t *Transport) ClearSheet(ctx context.Context, sheet string) error {
	id, exists, err := t.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	var requests []*sheets.Request
	if exists {
		requests = append(requests, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: id},
		})
	}
	requests = append(requests, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: sheet},
		},
	})

	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := t.service.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}
	return nil
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (t *Transport) Close() error { return nil }

func (t *Transport) sheetID(ctx context.Context, sheet string) (int64, bool, error) {
	resp, err := t.service.Spreadsheets.Get(t.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			return sh.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if s, ok := v.(string); ok {
			out[i] = s
		} else if v != nil {
			out[i] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// columnName converts a 1-based column number to its sheet name
// (1 -> A, 26 -> Z, 27 -> AA).
func columnName(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
