package httpapi

import (
	"github.com/andrewchen30/at-demo-pages-sub000/internal/appcontext"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/httpapi/middleware"
	"github.com/gin-gonic/gin"
)

// APIService wraps the gin engine and its routes.
type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

// NewHTTPService builds the engine and registers all routes.
func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(ctx.Logger))
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

// Engine exposes the underlying gin engine for serving and tests.
func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	v1 := h.engine.Group("/api/v1")
	h.setupChatLogRoutes(v1)
	h.setupStudentRoutes(v1)
	h.setupRoleRoutes(v1)

	h.engine.GET("/healthz", func(c *gin.Context) {
		respondOK(c, gin.H{"status": "ok"})
	})
}

func (h *APIService) setupChatLogRoutes(group *gin.RouterGroup) {
	logs := group.Group("/chat-logs")

	logs.GET("", ListChatLogs(h.context))
	logs.POST("", UpsertChatLog(h.context))
	logs.DELETE("", ClearChatLogs(h.context))
	logs.GET("/:id", GetChatLog(h.context))
	logs.PATCH("/:id", PatchChatLog(h.context))
}

func (h *APIService) setupStudentRoutes(group *gin.RouterGroup) {
	students := group.Group("/students")

	students.GET("", ListStudents(h.context))
	students.POST("", CreateStudent(h.context))
	students.DELETE("", ClearStudents(h.context))
	students.GET("/random", RandomStudent(h.context))
}

func (h *APIService) setupRoleRoutes(group *gin.RouterGroup) {
	group.POST("/judge", InvokeJudge(h.context))
	group.POST("/coach", InvokeCoach(h.context))
}
