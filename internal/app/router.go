package app

import (
	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/server"
)

func wireRouter(log *logger.Logger, m *Middleware, h *Handlers) *gin.Engine {
	return server.NewRouter(&server.RouterDeps{
		Log:         log,
		Auth:        m.Auth,
		Healthcheck: h.Healthcheck,
		AuthHandler: h.Auth,
		User:        h.User,
		Curriculum:  h.Curriculum,
		Chapter:     h.Chapter,
		Exercise:    h.Exercise,
		Activity:    h.Activity,
		Chat:        h.Chat,
		Digest:      h.Digest,
	})
}
