// Package excel backs the row store with a local .xlsx workbook. It is
// meant for offline development and integration tests, not concurrent
// use from multiple processes.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"github.com/xuri/excelize/v2"
)

// Config identifies the workbook file.
type Config struct {
	FilePath string
}

func (c Config) validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("excel: FilePath is required")
	}
	return nil
}

// Dialer creates workbook-backed transports.
type Dialer struct {
	config Config
}

// NewDialer creates a dialer for the given workbook path.
func NewDialer(config Config) (*Dialer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Dialer{config: config}, nil
}

// Dial opens the workbook, creating it if missing.
func (d *Dialer) Dial(ctx context.Context) (sheetdb.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(d.config.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var f *excelize.File
	if _, err := os.Stat(d.config.FilePath); err == nil {
		f, err = excelize.OpenFile(d.config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
	} else {
		f = excelize.NewFile()
	}

	return &Transport{file: f, path: d.config.FilePath}, nil
}

// Transport implements sheetdb.Transport over an excelize workbook.
// Every mutation saves the file, so a crash loses at most one write.
type Transport struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

func (t *Transport) EnsureSheet(ctx context.Context, sheet string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := t.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}
	if idx != -1 {
		return nil
	}

	if _, err := t.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	// Drop the workbook's default sheet once we have our own.
	if def := t.file.GetSheetName(0); def != sheet && def == "Sheet1" {
		_ = t.file.DeleteSheet(def)
	}
	return t.save()
}

func (t *Transport) ReadHeader(ctx context.Context, sheet string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := t.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

func (t *Transport) WriteHeader(ctx context.Context, sheet string, columns []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := t.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return t.save()
}

func (t *Transport) AppendRow(ctx context.Context, sheet string, values []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	rows, err := t.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	rowValues := make([]interface{}, len(values))
	for i, v := range values {
		rowValues[i] = v
	}
	cell := fmt.Sprintf("A%d", len(rows)+1)
	if err := t.file.SetSheetRow(sheet, cell, &rowValues); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return t.save()
}

func (t *Transport) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := t.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func (t *Transport) WriteCells(ctx context.Context, sheet string, writes []sheetdb.CellWrite) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, w := range writes {
		cell, err := excelize.CoordinatesToCellName(w.Col, w.Row)
		if err != nil {
			return fmt.Errorf("invalid cell coordinate (%d,%d): %w", w.Col, w.Row, err)
		}
		if err := t.file.SetCellStr(sheet, cell, w.Value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return t.save()
}

func (t *Transport) ClearSheet(ctx context.Context, sheet string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := t.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to get sheet index: %w", err)
	}

	if idx != -1 {
		// A workbook cannot drop its last sheet, so park a scratch tab
		// while the target is recreated.
		const scratch = "__sheetdb_scratch__"
		if _, err := t.file.NewSheet(scratch); err != nil {
			return fmt.Errorf("failed to create scratch sheet: %w", err)
		}
		if err := t.file.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("failed to delete sheet: %w", err)
		}
		if _, err := t.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to recreate sheet: %w", err)
		}
		if err := t.file.DeleteSheet(scratch); err != nil {
			return fmt.Errorf("failed to delete scratch sheet: %w", err)
		}
	} else {
		if _, err := t.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	return t.save()
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

func (t *Transport) save() error {
	if err := t.file.SaveAs(t.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
