package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/appcontext"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/repository"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListChatLogs returns chat logs, optionally sorted and sliced via
// offset/limit/orderBy query parameters.
func ListChatLogs(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := sheetdb.ListOptions{OrderBy: c.Query("orderBy")}
		if v := c.Query("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondError(c, http.StatusBadRequest, "offset must be a non-negative integer")
				return
			}
			opts.Offset = n
		}
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondError(c, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			opts.Limit = n
		}

		logs, err := ctx.ChatLogs.List(c.Request.Context(), opts)
		if err != nil {
			ctx.Logger.Error("failed to list chat logs", zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, logs)
	}
}

type upsertChatLogRequest struct {
	TeacherKey     string          `json:"teacher_key"`
	ChatHistory    json.RawMessage `json:"chat_history"`
	ChatCount      int             `json:"chat_count"`
	BackgroundInfo string          `json:"background_info"`
}

// UpsertChatLog creates or replaces the chat log for a teacher key.
func UpsertChatLog(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertChatLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if req.TeacherKey == "" {
			respondError(c, http.StatusBadRequest, "teacher_key is required")
			return
		}

		log := &repository.ChatLog{
			TeacherKey:     req.TeacherKey,
			ChatHistory:    req.ChatHistory,
			ChatCount:      req.ChatCount,
			BackgroundInfo: req.BackgroundInfo,
		}
		if err := ctx.ChatLogs.UpsertByTeacher(c.Request.Context(), log); err != nil {
			ctx.Logger.Error("failed to upsert chat log",
				zap.String("teacher_key", req.TeacherKey), zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, gin.H{"teacher_key": req.TeacherKey})
	}
}

// GetChatLog returns one chat log by id.
func GetChatLog(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		log, err := ctx.ChatLogs.GetByID(c.Request.Context(), id)
		if err != nil {
			ctx.Logger.Error("failed to get chat log", zap.String("id", id), zap.Error(err))
			respondStoreError(c, err)
			return
		}
		if log == nil {
			respondError(c, http.StatusNotFound, "chat log not found")
			return
		}
		respondOK(c, log)
	}
}

// patchableChatLogFields are the columns a PATCH may touch. id and the
// timestamps stay store-managed.
var patchableChatLogFields = map[string]bool{
	"teacher_key":     true,
	"chat_history":    true,
	"chat_count":      true,
	"background_info": true,
}

// PatchChatLog overwrites only the provided fields of one chat log.
func PatchChatLog(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		patch := sheetdb.Row{}
		for k, v := range body {
			if !patchableChatLogFields[k] {
				respondError(c, http.StatusBadRequest, "field cannot be patched: "+k)
				return
			}
			// Composite values arrive as decoded JSON. Store their JSON
			// text, same as the upsert path writes for chat_history.
			switch v.(type) {
			case map[string]any, []any:
				data, err := json.Marshal(v)
				if err != nil {
					respondError(c, http.StatusBadRequest, "field is not encodable: "+k)
					return
				}
				patch[k] = string(data)
			default:
				patch[k] = v
			}
		}
		if len(patch) == 0 {
			respondError(c, http.StatusBadRequest, "empty patch")
			return
		}

		if err := ctx.ChatLogs.UpdateByID(c.Request.Context(), id, patch); err != nil {
			ctx.Logger.Error("failed to patch chat log", zap.String("id", id), zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, gin.H{"id": id})
	}
}

// ClearChatLogs wipes the whole chat_logs table.
func ClearChatLogs(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctx.ChatLogs.ClearAll(c.Request.Context()); err != nil {
			ctx.Logger.Error("failed to clear chat logs", zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, gin.H{"cleared": true})
	}
}
