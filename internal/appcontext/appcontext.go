package appcontext

import (
	"github.com/andrewchen30/at-demo-pages-sub000/internal/repository"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/roles"
	"go.uber.org/zap"
)

// Context bundles the shared collaborators every handler needs.
type Context struct {
	Logger *zap.Logger

	ChatLogs     *repository.ChatLogs
	Students     *repository.Students
	StudentCache *repository.StudentCache

	Roles *roles.Registry
}
