package httpapi

import (
	"net/http"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/appcontext"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/roles"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type roleRequest struct {
	Message string            `json:"message"`
	Vars    map[string]string `json:"vars"`
	History []roles.Message   `json:"history"`
}

// InvokeJudge runs the judge role over a finished conversation and
// returns its parsed verdict.
func InvokeJudge(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.History) == 0 {
			respondError(c, http.StatusBadRequest, "history is required")
			return
		}

		judge, err := ctx.Roles.Get(roles.RoleJudge)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		answer, err := judge.Ask(c.Request.Context(), req.Message, req.Vars, req.History)
		if err != nil {
			ctx.Logger.Error("judge role failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		verdict, err := roles.ParseVerdict(answer.Result)
		if err != nil {
			ctx.Logger.Warn("judge returned malformed verdict",
				zap.String("result", answer.Result), zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondOK(c, gin.H{"verdict": verdict, "result": answer.Result})
	}
}

// InvokeCoach runs the coach role and returns its advice verbatim.
func InvokeCoach(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.History) == 0 {
			respondError(c, http.StatusBadRequest, "history is required")
			return
		}

		coach, err := ctx.Roles.Get(roles.RoleCoach)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		answer, err := coach.Ask(c.Request.Context(), req.Message, req.Vars, req.History)
		if err != nil {
			ctx.Logger.Error("coach role failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondOK(c, gin.H{"result": answer.Result})
	}
}
