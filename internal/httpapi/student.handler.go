package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/appcontext"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/repository"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/roles"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListStudents returns every stored persona.
func ListStudents(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := ctx.Students.List(c.Request.Context())
		if err != nil {
			ctx.Logger.Error("failed to list students", zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, students)
	}
}

type createStudentRequest struct {
	BackgroundInfo string `json:"background_info"`
}

// CreateStudent asks the director role to invent a persona and
// persists it through the student cache.
func CreateStudent(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		director, err := ctx.Roles.Get(roles.RoleDirector)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		vars := map[string]string{"background_info": req.BackgroundInfo}
		answer, err := director.Ask(c.Request.Context(), "Generate one student persona.", vars, nil)
		if err != nil {
			ctx.Logger.Error("director role failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		payload, err := roles.ExtractJSONObject(answer.Result)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "director output: "+err.Error())
			return
		}
		var persona repository.Persona
		if err := json.Unmarshal([]byte(payload), &persona); err != nil {
			respondError(c, http.StatusInternalServerError, "director output: "+err.Error())
			return
		}

		id, err := ctx.StudentCache.Add(c.Request.Context(), &persona)
		if err != nil {
			ctx.Logger.Error("failed to store persona", zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, gin.H{"id": id, "persona": persona})
	}
}

// RandomStudent picks a persona from the in-memory mirror, loading it
// on first use.
func RandomStudent(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctx.StudentCache.Loaded() {
			if err := ctx.StudentCache.Reload(c.Request.Context()); err != nil {
				ctx.Logger.Error("failed to load student cache", zap.Error(err))
				respondStoreError(c, err)
				return
			}
		}

		student, ok := ctx.StudentCache.Random()
		if !ok {
			respondError(c, http.StatusNotFound, "no students available")
			return
		}
		respondOK(c, student)
	}
}

// ClearStudents wipes the students table and the mirror.
func ClearStudents(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctx.StudentCache.Clear(c.Request.Context()); err != nil {
			ctx.Logger.Error("failed to clear students", zap.Error(err))
			respondStoreError(c, err)
			return
		}
		respondOK(c, gin.H{"cleared": true})
	}
}
