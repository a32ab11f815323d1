package googlesheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"google.golang.org/api/option"
)

// fakeSheets serves just enough of the Sheets v4 REST surface for the
// transport to run against.
type fakeSheets struct {
	t            *testing.T
	values       [][]interface{}
	sheetTitles  []string
	batchUpdates []string // raw bodies of :batchUpdate calls
	appends      []string
	cellWrites   []string
}

func (f *fakeSheets) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, ":batchUpdate") && strings.Contains(r.URL.Path, "/values"):
			f.cellWrites = append(f.cellWrites, string(body))
			w.Write([]byte(`{}`))
		case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			f.batchUpdates = append(f.batchUpdates, string(body))
			w.Write([]byte(`{}`))
		case strings.HasSuffix(r.URL.Path, ":append"):
			f.appends = append(f.appends, string(body))
			w.Write([]byte(`{}`))
		case strings.Contains(r.URL.Path, "/values/"):
			resp := map[string]interface{}{"values": f.values}
			json.NewEncoder(w).Encode(resp)
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/test-id"):
			sheets := make([]map[string]interface{}, 0, len(f.sheetTitles))
			for i, title := range f.sheetTitles {
				sheets = append(sheets, map[string]interface{}{
					"properties": map[string]interface{}{"sheetId": i + 1, "title": title},
				})
			}
			resp := map[string]interface{}{"spreadsheetId": "test-id", "sheets": sheets}
			json.NewEncoder(w).Encode(resp)
		default:
			f.t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(404)
		}
	})
}

func newTestTransport(t *testing.T, fake *fakeSheets) sheetdb.Transport {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	dialer := NewDialer(Config{SpreadsheetID: "test-id"},
		option.WithEndpoint(server.URL), option.WithoutAuthentication())

	tr, err := dialer.Dial(context.Background())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return tr
}

func TestTransport_ReadRows(t *testing.T) {
	fake := &fakeSheets{t: t, sheetTitles: []string{"chat_logs"}, values: [][]interface{}{
		{"id", "teacher_key", "chat_count"},
		{"a1", "T1", "3"},
		{"a2", "T2", "5"},
	}}
	tr := newTestTransport(t, fake)

	rows, err := tr.ReadRows(context.Background(), "chat_logs")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ReadRows() returned %d rows, want 3", len(rows))
	}
	if rows[1][0] != "a1" || rows[2][2] != "5" {
		t.Errorf("ReadRows() = %v, unexpected content", rows)
	}
}

func TestTransport_EnsureSheet(t *testing.T) {
	t.Run("existing tab is untouched", func(t *testing.T) {
		fake := &fakeSheets{t: t, sheetTitles: []string{"chat_logs"}}
		tr := newTestTransport(t, fake)

		if err := tr.EnsureSheet(context.Background(), "chat_logs"); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}
		if len(fake.batchUpdates) != 0 {
			t.Errorf("EnsureSheet() issued %d batchUpdates for an existing tab", len(fake.batchUpdates))
		}
	})

	t.Run("missing tab is added", func(t *testing.T) {
		fake := &fakeSheets{t: t, sheetTitles: []string{"other"}}
		tr := newTestTransport(t, fake)

		if err := tr.EnsureSheet(context.Background(), "chat_logs"); err != nil {
			t.Fatalf("EnsureSheet() error = %v", err)
		}
		if len(fake.batchUpdates) != 1 {
			t.Fatalf("EnsureSheet() issued %d batchUpdates, want 1", len(fake.batchUpdates))
		}
		if !strings.Contains(fake.batchUpdates[0], `"chat_logs"`) {
			t.Errorf("addSheet request missing title: %s", fake.batchUpdates[0])
		}
	})
}

func TestTransport_AppendRow(t *testing.T) {
	fake := &fakeSheets{t: t, sheetTitles: []string{"chat_logs"}}
	tr := newTestTransport(t, fake)

	err := tr.AppendRow(context.Background(), "chat_logs", []string{"a1", "T1", "0"})
	if err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if len(fake.appends) != 1 {
		t.Fatalf("AppendRow() issued %d append calls, want 1", len(fake.appends))
	}
	if !strings.Contains(fake.appends[0], `"T1"`) {
		t.Errorf("append body missing values: %s", fake.appends[0])
	}
}

func TestTransport_WriteCells(t *testing.T) {
	fake := &fakeSheets{t: t, sheetTitles: []string{"chat_logs"}}
	tr := newTestTransport(t, fake)

	writes := []sheetdb.CellWrite{
		{Row: 2, Col: 3, Value: "9"},
		{Row: 2, Col: 7, Value: "2024-06-01T00:00:00.000Z"},
	}
	if err := tr.WriteCells(context.Background(), "chat_logs", writes); err != nil {
		t.Fatalf("WriteCells() error = %v", err)
	}
	if len(fake.cellWrites) != 1 {
		t.Fatalf("WriteCells() issued %d requests, want one batch", len(fake.cellWrites))
	}
	body := fake.cellWrites[0]
	if !strings.Contains(body, "chat_logs!C2") || !strings.Contains(body, "chat_logs!G2") {
		t.Errorf("batch body missing expected ranges: %s", body)
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{702, "ZZ"},
	}
	for _, tt := range tests {
		if got := columnName(tt.col); got != tt.want {
			t.Errorf("columnName(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}
