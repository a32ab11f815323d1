package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
)

// StudentsModel is the students table. Generated personas are stored
// whole as a JSON document in the raw column.
var StudentsModel = sheetdb.ModelDef{
	Sheet: "students",
	Columns: []sheetdb.Column{
		{Name: "id", Type: sheetdb.TypeString},
		{Name: "raw", Type: sheetdb.TypeString},
		{Name: "created_at", Type: sheetdb.TypeString},
		{Name: "updated_at", Type: sheetdb.TypeString},
	},
}

// Persona is a generated student profile used to seed the student role.
type Persona struct {
	Name        string `json:"name"`
	Age         int    `json:"age,omitempty"`
	Personality string `json:"personality"`
	Goal        string `json:"goal"`
	Background  string `json:"background"`
}

// Student is one stored persona row.
type Student struct {
	ID        string `json:"id"`
	Raw       string `json:"raw"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Persona decodes the stored JSON payload.
func (s *Student) Persona() (*Persona, error) {
	var p Persona
	if err := json.Unmarshal([]byte(s.Raw), &p); err != nil {
		return nil, fmt.Errorf("student %s: malformed persona payload: %w", s.ID, err)
	}
	return &p, nil
}

// Students is the students facade, connection-per-call like ChatLogs.
type Students struct {
	dialer sheetdb.Dialer
	cfg    *sheetdb.Config
}

// NewStudents creates the facade over the given transport dialer.
func NewStudents(dialer sheetdb.Dialer, cfg *sheetdb.Config) *Students {
	return &Students{dialer: dialer, cfg: cfg}
}

func (r *Students) withStore(ctx context.Context, fn func(*sheetdb.Store) error) error {
	store := sheetdb.New(r.dialer, r.cfg)
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer store.Disconnect()

	if err := store.CreateModel(ctx, StudentsModel); err != nil {
		return err
	}
	return fn(store)
}

// Create persists a persona and returns the assigned row id.
func (r *Students) Create(ctx context.Context, p *Persona) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode persona: %w", err)
	}

	var id string
	err = r.withStore(ctx, func(store *sheetdb.Store) error {
		var appendErr error
		id, appendErr = store.AppendRow(ctx, StudentsModel, sheetdb.Row{"raw": string(raw)})
		return appendErr
	})
	return id, err
}

// List returns every stored student in insertion order.
func (r *Students) List(ctx context.Context) ([]Student, error) {
	var students []Student
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		rows, listErr := store.List(ctx, StudentsModel, sheetdb.ListOptions{})
		if listErr != nil {
			return listErr
		}
		students = make([]Student, 0, len(rows))
		for _, row := range rows {
			students = append(students, Student{
				ID:        asString(row["id"]),
				Raw:       asString(row["raw"]),
				CreatedAt: asString(row["created_at"]),
				UpdatedAt: asString(row["updated_at"]),
			})
		}
		return nil
	})
	return students, err
}

// GetByID returns the student with the given id, or nil.
func (r *Students) GetByID(ctx context.Context, id string) (*Student, error) {
	var student *Student
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		row, getErr := store.GetByID(ctx, StudentsModel, id)
		if getErr != nil {
			return getErr
		}
		if row != nil {
			student = &Student{
				ID:        asString(row["id"]),
				Raw:       asString(row["raw"]),
				CreatedAt: asString(row["created_at"]),
				UpdatedAt: asString(row["updated_at"]),
			}
		}
		return nil
	})
	return student, err
}

// ClearAll wipes the table back to just its header row.
func (r *Students) ClearAll(ctx context.Context) error {
	return r.withStore(ctx, func(store *sheetdb.Store) error {
		return store.ClearModel(ctx, StudentsModel)
	})
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	default:
		return 0
	}
}
