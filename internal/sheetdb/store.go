package sheetdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Config tunes the store's retry behavior and clock.
type Config struct {
	MaxAttempts int             // total attempts per transport call (default 3)
	Backoff     []time.Duration // sleep between attempts (default 100/300/600ms)
	Clock       func() time.Time
}

// Store provides table-like CRUD over a spreadsheet-shaped backend for
// an arbitrary ModelDef. It holds at most one transport handle; Connect
// must be called before any operation and Disconnect releases it.
//
// Every lookup is a full linear scan and no operation spans more than
// one transport write, so concurrent writers can interleave: UpsertByKey
// has a read-then-write race and AppendRow guarantees no relative order
// across writers. Single-writer use is the supported mode.
type Store struct {
	dialer Dialer
	cfg    Config
	tr     Transport
}

// New creates a Store over the given dialer. A nil config uses the
// defaults.
func New(dialer Dialer, cfg *Config) *Store {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if len(c.Backoff) == 0 {
		c.Backoff = defaultBackoff
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return &Store{dialer: dialer, cfg: c}
}

// Connect dials the backing transport. Credential or reachability
// failures come back as *ConnectionError.
func (s *Store) Connect(ctx context.Context) error {
	var tr Transport
	err := s.withRetry(ctx, func() error {
		var dialErr error
		tr, dialErr = s.dialer.Dial(ctx)
		return dialErr
	})
	if err != nil {
		return &ConnectionError{Reason: "dial failed", Err: err}
	}
	s.tr = tr
	return nil
}

// Disconnect releases the transport handle. Idempotent; the store
// cannot be used again without reconnecting.
func (s *Store) Disconnect() error {
	if s.tr == nil {
		return nil
	}
	err := s.tr.Close()
	s.tr = nil
	return err
}

func (s *Store) transport() (Transport, error) {
	if s.tr == nil {
		return nil, &ConnectionError{Reason: "not connected"}
	}
	return s.tr, nil
}

// CreateModel ensures the model's tab exists and seeds the header row
// if the header range is empty. An existing header is never overwritten,
// even a mismatched one. Idempotent.
func (s *Store) CreateModel(ctx context.Context, model ModelDef) error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	if err := s.withRetry(ctx, func() error {
		return tr.EnsureSheet(ctx, model.Sheet)
	}); err != nil {
		return err
	}

	var header []string
	if err := s.withRetry(ctx, func() error {
		var readErr error
		header, readErr = tr.ReadHeader(ctx, model.Sheet)
		return readErr
	}); err != nil {
		return err
	}
	if len(header) > 0 {
		return nil
	}
	return s.withRetry(ctx, func() error {
		return tr.WriteHeader(ctx, model.Sheet, model.ColumnNames())
	})
}

// AppendRow stamps id/created_at/updated_at, projects the row onto the
// model's column order (missing fields become empty cells) and appends
// it. Returns the assigned id. The input row is not mutated.
func (s *Store) AppendRow(ctx context.Context, model ModelDef, row Row) (string, error) {
	tr, err := s.transport()
	if err != nil {
		return "", err
	}

	id, _ := row[ColID].(string)
	if id == "" {
		id = uuid.NewString()
	}
	now := s.timestamp()

	values := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		switch c.Name {
		case ColID:
			values[i] = id
		case ColCreatedAt, ColUpdatedAt:
			values[i] = now
		default:
			values[i] = EncodeCell(row[c.Name])
		}
	}

	if err := s.withRetry(ctx, func() error {
		return tr.AppendRow(ctx, model.Sheet, values)
	}); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateRowByID overwrites exactly the patched columns of the first row
// whose id cell matches id, plus updated_at, in one batched write.
// Cells not present in the patch stay untouched. The write is not
// atomic across cells.
func (s *Store) UpdateRowByID(ctx context.Context, model ModelDef, id string, patch Row) error {
	idIdx := model.ColumnIndex(ColID)
	if idIdx < 0 {
		return &ConfigurationError{Model: model.Sheet, Reason: "no id column, rows are not addressable"}
	}

	rows, err := s.readRows(ctx, model)
	if err != nil {
		return err
	}

	rowNum := -1 // 1-based sheet row
	for i := 1; i < len(rows); i++ {
		if idIdx < len(rows[i]) && rows[i][idIdx] == id {
			rowNum = i + 1
			break
		}
	}
	if rowNum < 0 {
		return &NotFoundError{Sheet: model.Sheet, ID: id}
	}

	merged := make(Row, len(patch)+1)
	for k, v := range patch {
		merged[k] = v
	}
	merged[ColUpdatedAt] = s.timestamp()

	var writes []CellWrite
	for i, c := range model.Columns {
		v, ok := merged[c.Name]
		if !ok {
			continue
		}
		writes = append(writes, CellWrite{Row: rowNum, Col: i + 1, Value: EncodeCell(v)})
	}
	if len(writes) == 0 {
		return nil
	}

	tr, err := s.transport()
	if err != nil {
		return err
	}
	return s.withRetry(ctx, func() error {
		return tr.WriteCells(ctx, model.Sheet, writes)
	})
}

// UpsertByKey updates the first row whose key column matches key, or
// appends row when none does. The key value is expected to already be
// present in row under the key field. Not atomic: a concurrent append
// between the lookup and the write can produce a duplicate key.
func (s *Store) UpsertByKey(ctx context.Context, model ModelDef, key string, row Row) error {
	if model.KeyField == "" {
		return &ConfigurationError{Model: model.Sheet, Reason: "no key field, upsert is not available"}
	}

	existing, err := s.FindFirst(ctx, model, Row{model.KeyField: key})
	if err != nil {
		return err
	}
	if existing != nil {
		id, _ := existing[ColID].(string)
		return s.UpdateRowByID(ctx, model, id, row)
	}
	_, err = s.AppendRow(ctx, model, row)
	return err
}

// GetByID returns the first row whose id cell matches id, projected
// through the model's column types, or nil if absent.
func (s *Store) GetByID(ctx context.Context, model ModelDef, id string) (Row, error) {
	idIdx := model.ColumnIndex(ColID)
	if idIdx < 0 {
		return nil, &ConfigurationError{Model: model.Sheet, Reason: "no id column, rows are not addressable"}
	}

	rows, err := s.readRows(ctx, model)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(rows); i++ {
		if idIdx < len(rows[i]) && rows[i][idIdx] == id {
			return model.project(rows[i]), nil
		}
	}
	return nil, nil
}

// FindFirst returns the first row in storage order matching strict
// equality on every key of where, or nil.
func (s *Store) FindFirst(ctx context.Context, model ModelDef, where Row) (Row, error) {
	rows, err := s.readRows(ctx, model)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(rows); i++ {
		row := model.project(rows[i])
		if rowMatches(row, where) {
			return row, nil
		}
	}
	return nil, nil
}

// ListOptions controls List's slicing and ordering. A zero Limit means
// no limit.
type ListOptions struct {
	Offset  int
	Limit   int
	OrderBy string
}

// List projects every data row, optionally sorts ascending by OrderBy
// and applies Offset/Limit slicing. An empty table yields an empty
// slice, never nil.
func (s *Store) List(ctx context.Context, model ModelDef, opts ListOptions) ([]Row, error) {
	raw, err := s.readRows(ctx, model)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(raw))
	for i := 1; i < len(raw); i++ {
		rows = append(rows, model.project(raw[i]))
	}

	if opts.OrderBy != "" {
		field := opts.OrderBy
		sort.SliceStable(rows, func(i, j int) bool {
			return lessValue(rows[i][field], rows[j][field])
		})
	}

	if opts.Offset >= len(rows) {
		return []Row{}, nil
	}
	if opts.Offset > 0 {
		rows = rows[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}
	return rows, nil
}

// ClearModel deletes the model's tab and recreates it with just the
// header row. This is the only bulk-delete primitive; there is no
// single-row delete.
func (s *Store) ClearModel(ctx context.Context, model ModelDef) error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	if err := s.withRetry(ctx, func() error {
		return tr.ClearSheet(ctx, model.Sheet)
	}); err != nil {
		return err
	}
	return s.withRetry(ctx, func() error {
		return tr.WriteHeader(ctx, model.Sheet, model.ColumnNames())
	})
}

func (s *Store) readRows(ctx context.Context, model ModelDef) ([][]string, error) {
	tr, err := s.transport()
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if err := s.withRetry(ctx, func() error {
		var readErr error
		rows, readErr = tr.ReadRows(ctx, model.Sheet)
		return readErr
	}); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) timestamp() string {
	return s.cfg.Clock().UTC().Format(TimeLayout)
}

func rowMatches(row, where Row) bool {
	for k, want := range where {
		if !valuesEqual(row[k], want) {
			return false
		}
	}
	return true
}
