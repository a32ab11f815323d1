package sheetdb

// ColumnType declares how cell values of a column are decoded on read.
// The zero value keeps the legacy behavior of guessing from the cell's
// shape, which turns "007" into the number 7. Declare an explicit type
// on any column where that matters.
type ColumnType string

const (
	TypeAuto   ColumnType = ""
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
)

// Column describes one field of a model.
type Column struct {
	Name string
	Type ColumnType
}

// ModelDef describes one logical table backed by a single sheet tab.
// Column order is significant: it is the only mapping between fields
// and physical columns.
type ModelDef struct {
	Sheet    string
	Columns  []Column
	KeyField string // optional uniqueness key for UpsertByKey
}

// Reserved column names stamped by the store.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// TimeLayout is the timestamp format written to created_at/updated_at.
// UTC with millisecond precision so that timestamps order lexically.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Row is a record shaped by a ModelDef's columns.
type Row map[string]any

// ColumnIndex returns the physical column index of name, or -1.
func (m ModelDef) ColumnIndex(name string) int {
	for i, c := range m.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the ordered column names, used as the header row.
func (m ModelDef) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

func (m ModelDef) columnType(name string) ColumnType {
	for _, c := range m.Columns {
		if c.Name == name {
			return c.Type
		}
	}
	return TypeAuto
}

// project maps one raw sheet row onto the model's columns. Cells past
// the end of the physical row read as empty strings.
func (m ModelDef) project(raw []string) Row {
	row := make(Row, len(m.Columns))
	for i, c := range m.Columns {
		cell := ""
		if i < len(raw) {
			cell = raw[i]
		}
		row[c.Name] = DecodeCell(cell, c.Type)
	}
	return row
}
