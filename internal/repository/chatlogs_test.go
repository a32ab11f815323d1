package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatLogs(t *testing.T) (*ChatLogs, *memory.Transport) {
	t.Helper()
	tr := memory.New()
	return NewChatLogs(tr, &sheetdb.Config{}), tr
}

func TestChatLogs_CreateAndGet(t *testing.T) {
	repo, _ := newChatLogs(t)
	ctx := context.Background()

	history, _ := json.Marshal([]map[string]string{{"role": "user", "content": "hi"}})
	id, err := repo.Create(ctx, &ChatLog{
		TeacherKey:     "T1",
		ChatHistory:    history,
		ChatCount:      1,
		BackgroundInfo: "piano teacher",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "T1", got.TeacherKey)
	assert.Equal(t, 1, got.ChatCount)
	assert.Equal(t, "piano teacher", got.BackgroundInfo)
	assert.JSONEq(t, string(history), string(got.ChatHistory))
	assert.NotEmpty(t, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestChatLogs_GetMissing(t *testing.T) {
	repo, _ := newChatLogs(t)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChatLogs_UpsertByTeacher(t *testing.T) {
	repo, _ := newChatLogs(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertByTeacher(ctx, &ChatLog{TeacherKey: "T1", ChatCount: 1}))
	require.NoError(t, repo.UpsertByTeacher(ctx, &ChatLog{TeacherKey: "T1", ChatCount: 9}))
	require.NoError(t, repo.UpsertByTeacher(ctx, &ChatLog{TeacherKey: "T2", ChatCount: 2}))

	logs, err := repo.List(ctx, sheetdb.ListOptions{})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	byKey := map[string]ChatLog{}
	for _, l := range logs {
		byKey[l.TeacherKey] = l
	}
	assert.Equal(t, 9, byKey["T1"].ChatCount)
	assert.Equal(t, 2, byKey["T2"].ChatCount)
}

func TestChatLogs_FindByTeacherKey(t *testing.T) {
	repo, _ := newChatLogs(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &ChatLog{TeacherKey: "T1"})
	require.NoError(t, err)

	got, err := repo.FindByTeacherKey(ctx, "T1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T1", got.TeacherKey)

	missing, err := repo.FindByTeacherKey(ctx, "T9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChatLogs_UpdateByID(t *testing.T) {
	repo, _ := newChatLogs(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &ChatLog{TeacherKey: "T1", ChatCount: 1, BackgroundInfo: "keep"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateByID(ctx, id, sheetdb.Row{"chat_count": 5}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ChatCount)
	assert.Equal(t, "keep", got.BackgroundInfo)

	var notFound *sheetdb.NotFoundError
	err = repo.UpdateByID(ctx, "nope", sheetdb.Row{"chat_count": 5})
	assert.ErrorAs(t, err, &notFound)
}

func TestChatLogs_ClearAll(t *testing.T) {
	repo, _ := newChatLogs(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &ChatLog{TeacherKey: "T1"})
		require.NoError(t, err)
	}
	require.NoError(t, repo.ClearAll(ctx))

	logs, err := repo.List(ctx, sheetdb.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

// Each repository call opens and closes its own connection, so a
// transport that fails a whole dial still leaves later calls healthy.
func TestChatLogs_ConnectionPerCall(t *testing.T) {
	repo, tr := newChatLogs(t)
	ctx := context.Background()

	tr.FailNext(assert.AnError)
	_, err := repo.Create(ctx, &ChatLog{TeacherKey: "T1"})
	require.Error(t, err)

	_, err = repo.Create(ctx, &ChatLog{TeacherKey: "T1"})
	require.NoError(t, err)
}
