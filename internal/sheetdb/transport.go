package sheetdb

import "context"

// CellWrite addresses one cell overwrite. Row and Col are 1-based sheet
// coordinates, so the header occupies Row 1 and data starts at Row 2.
type CellWrite struct {
	Row   int
	Col   int
	Value string
}

// Transport is the narrow contract the store needs from a spreadsheet
// backend. Implementations live under adapters/.
type Transport interface {
	// EnsureSheet creates the named tab if it does not exist.
	EnsureSheet(ctx context.Context, sheet string) error

	// ReadHeader returns the first row of the tab, or an empty slice if
	// the tab has no content.
	ReadHeader(ctx context.Context, sheet string) ([]string, error)

	// WriteHeader writes columns as the first row of the tab.
	WriteHeader(ctx context.Context, sheet string, columns []string) error

	// AppendRow appends one row after the last row with content.
	AppendRow(ctx context.Context, sheet string, values []string) error

	// ReadRows returns every row of the tab including the header.
	ReadRows(ctx context.Context, sheet string) ([][]string, error)

	// WriteCells applies all writes in a single batched request.
	WriteCells(ctx context.Context, sheet string, writes []CellWrite) error

	// ClearSheet deletes the tab and recreates it empty.
	ClearSheet(ctx context.Context, sheet string) error

	// Close releases any resources held by the transport.
	Close() error
}

// Dialer produces a connected Transport. Store.Connect calls Dial once
// per connection; credential and reachability failures surface here.
type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}
