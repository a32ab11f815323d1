package repository

import (
	"context"
	"encoding/json"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
)

// ChatLogsModel is the chat_logs table: one row per teacher, keyed by
// teacher_key, with the running conversation serialized into
// chat_history.
var ChatLogsModel = sheetdb.ModelDef{
	Sheet:    "chat_logs",
	KeyField: "teacher_key",
	Columns: []sheetdb.Column{
		{Name: "id", Type: sheetdb.TypeString},
		{Name: "teacher_key", Type: sheetdb.TypeString},
		{Name: "chat_history", Type: sheetdb.TypeString},
		{Name: "chat_count", Type: sheetdb.TypeNumber},
		{Name: "background_info", Type: sheetdb.TypeString},
		{Name: "created_at", Type: sheetdb.TypeString},
		{Name: "updated_at", Type: sheetdb.TypeString},
	},
}

// ChatLog is one teacher's trial-lesson conversation state.
type ChatLog struct {
	ID             string          `json:"id"`
	TeacherKey     string          `json:"teacher_key"`
	ChatHistory    json.RawMessage `json:"chat_history"`
	ChatCount      int             `json:"chat_count"`
	BackgroundInfo string          `json:"background_info"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// ChatLogs is the chat_logs facade. Every operation opens its own
// store connection, ensures the tab exists, performs one store call
// and disconnects. No pooling; callers pay the connect cost per call.
type ChatLogs struct {
	dialer sheetdb.Dialer
	cfg    *sheetdb.Config
}

// NewChatLogs creates the facade over the given transport dialer.
func NewChatLogs(dialer sheetdb.Dialer, cfg *sheetdb.Config) *ChatLogs {
	return &ChatLogs{dialer: dialer, cfg: cfg}
}

func (r *ChatLogs) withStore(ctx context.Context, fn func(*sheetdb.Store) error) error {
	store := sheetdb.New(r.dialer, r.cfg)
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer store.Disconnect()

	if err := store.CreateModel(ctx, ChatLogsModel); err != nil {
		return err
	}
	return fn(store)
}

// Create appends a new chat log and returns its assigned id.
func (r *ChatLogs) Create(ctx context.Context, log *ChatLog) (string, error) {
	var id string
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		var appendErr error
		id, appendErr = store.AppendRow(ctx, ChatLogsModel, log.toRow())
		return appendErr
	})
	return id, err
}

// List returns chat logs with optional ordering and slicing.
func (r *ChatLogs) List(ctx context.Context, opts sheetdb.ListOptions) ([]ChatLog, error) {
	var logs []ChatLog
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		rows, listErr := store.List(ctx, ChatLogsModel, opts)
		if listErr != nil {
			return listErr
		}
		logs = make([]ChatLog, 0, len(rows))
		for _, row := range rows {
			logs = append(logs, chatLogFromRow(row))
		}
		return nil
	})
	return logs, err
}

// ClearAll wipes the table back to just its header row.
func (r *ChatLogs) ClearAll(ctx context.Context) error {
	return r.withStore(ctx, func(store *sheetdb.Store) error {
		return store.ClearModel(ctx, ChatLogsModel)
	})
}

// UpdateByID overwrites only the fields present in patch.
func (r *ChatLogs) UpdateByID(ctx context.Context, id string, patch sheetdb.Row) error {
	return r.withStore(ctx, func(store *sheetdb.Store) error {
		return store.UpdateRowByID(ctx, ChatLogsModel, id, patch)
	})
}

// UpsertByTeacher updates the row for log.TeacherKey or appends one.
func (r *ChatLogs) UpsertByTeacher(ctx context.Context, log *ChatLog) error {
	return r.withStore(ctx, func(store *sheetdb.Store) error {
		return store.UpsertByKey(ctx, ChatLogsModel, log.TeacherKey, log.toRow())
	})
}

// GetByID returns the chat log with the given id, or nil.
func (r *ChatLogs) GetByID(ctx context.Context, id string) (*ChatLog, error) {
	var log *ChatLog
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		row, getErr := store.GetByID(ctx, ChatLogsModel, id)
		if getErr != nil {
			return getErr
		}
		if row != nil {
			l := chatLogFromRow(row)
			log = &l
		}
		return nil
	})
	return log, err
}

// FindByTeacherKey returns the first chat log for the teacher, or nil.
func (r *ChatLogs) FindByTeacherKey(ctx context.Context, teacherKey string) (*ChatLog, error) {
	var log *ChatLog
	err := r.withStore(ctx, func(store *sheetdb.Store) error {
		row, findErr := store.FindFirst(ctx, ChatLogsModel, sheetdb.Row{"teacher_key": teacherKey})
		if findErr != nil {
			return findErr
		}
		if row != nil {
			l := chatLogFromRow(row)
			log = &l
		}
		return nil
	})
	return log, err
}

func (l *ChatLog) toRow() sheetdb.Row {
	row := sheetdb.Row{
		"teacher_key":     l.TeacherKey,
		"chat_history":    string(l.ChatHistory),
		"chat_count":      l.ChatCount,
		"background_info": l.BackgroundInfo,
	}
	if l.ID != "" {
		row["id"] = l.ID
	}
	return row
}

func chatLogFromRow(row sheetdb.Row) ChatLog {
	log := ChatLog{
		ID:             asString(row["id"]),
		TeacherKey:     asString(row["teacher_key"]),
		BackgroundInfo: asString(row["background_info"]),
		CreatedAt:      asString(row["created_at"]),
		UpdatedAt:      asString(row["updated_at"]),
		ChatCount:      asInt(row["chat_count"]),
	}
	if h := asString(row["chat_history"]); h != "" {
		log.ChatHistory = json.RawMessage(h)
	}
	return log
}
