package app

import (
	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/middleware"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s *Services) *Middleware {
	return &Middleware{
		Auth: middleware.NewAuthMiddleware(log, s.Auth),
	}
}
