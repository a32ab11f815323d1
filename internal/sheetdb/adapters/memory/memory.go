// Package memory is an in-process sheetdb.Transport used by tests and
// as a throwaway local backend. It supports scripted failures so retry
// behavior can be exercised without a network.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
)

// Transport holds tabs as raw string grids. It is its own Dialer, so a
// single instance can be shared between a test and the store under
// test.
type Transport struct {
	mu       sync.Mutex
	tabs     map[string][][]string
	failures []error
	calls    int
}

// New creates an empty in-memory transport.
func New() *Transport {
	return &Transport{tabs: make(map[string][][]string)}
}

// Dial returns the transport itself.
func (t *Transport) Dial(ctx context.Context) (sheetdb.Transport, error) {
	if err := t.begin(); err != nil {
		return nil, err
	}
	return t, nil
}

// FailNext queues errors to be returned by the next transport calls,
// one per call, before any real work happens.
func (t *Transport) FailNext(errs ...error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, errs...)
}

// Calls reports how many transport calls (including failed ones) have
// been made.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Rows returns a copy of the named tab's raw grid.
func (t *Transport) Rows(sheet string) [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyGrid(t.tabs[sheet])
}

func (t *Transport) EnsureSheet(ctx context.Context, sheet string) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tabs[sheet]; !ok {
		t.tabs[sheet] = [][]string{}
	}
	return nil
}

func (t *Transport) ReadHeader(ctx context.Context, sheet string) ([]string, error) {
	if err := t.begin(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := t.tabs[sheet]
	if len(rows) == 0 {
		return []string{}, nil
	}
	return append([]string(nil), rows[0]...), nil
}

func (t *Transport) WriteHeader(ctx context.Context, sheet string, columns []string) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	header := append([]string(nil), columns...)
	rows := t.tabs[sheet]
	if len(rows) == 0 {
		t.tabs[sheet] = [][]string{header}
	} else {
		rows[0] = header
	}
	return nil
}

func (t *Transport) AppendRow(ctx context.Context, sheet string, values []string) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tabs[sheet] = append(t.tabs[sheet], append([]string(nil), values...))
	return nil
}

func (t *Transport) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := t.begin(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyGrid(t.tabs[sheet]), nil
}

func (t *Transport) WriteCells(ctx context.Context, sheet string, writes []sheetdb.CellWrite) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := t.tabs[sheet]
	for _, w := range writes {
		if w.Row < 1 || w.Row > len(rows) {
			return fmt.Errorf("memory: row %d out of range for sheet %s", w.Row, sheet)
		}
		row := rows[w.Row-1]
		for len(row) < w.Col {
			row = append(row, "")
		}
		row[w.Col-1] = w.Value
		rows[w.Row-1] = row
	}
	return nil
}

func (t *Transport) ClearSheet(ctx context.Context, sheet string) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tabs[sheet] = [][]string{}
	return nil
}

func (t *Transport) Close() error { return nil }

func (t *Transport) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if len(t.failures) > 0 {
		err := t.failures[0]
		t.failures = t.failures[1:]
		return err
	}
	return nil
}

func copyGrid(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
