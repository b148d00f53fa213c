package app

import (
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/handlers"
	"github.com/classbridge/classbridge-backend/internal/logger"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Curriculum  *handlers.CurriculumHandler
	Chapter     *handlers.ChapterHandler
	Exercise    *handlers.ExerciseHandler
	Activity    *handlers.ActivityHandler
	Chat        *handlers.ChatHandler
	Digest      *handlers.DigestHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s *Services) *Handlers {
	return &Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(db, log),
		Auth:        handlers.NewAuthHandler(log, s.Auth),
		User:        handlers.NewUserHandler(log, s.User),
		Curriculum:  handlers.NewCurriculumHandler(log, s.Curriculum),
		Chapter:     handlers.NewChapterHandler(log, s.Progress),
		Exercise:    handlers.NewExerciseHandler(log, s.Progress, s.Essay),
		Activity:    handlers.NewActivityHandler(log, s.Activity),
		Chat:        handlers.NewChatHandler(log, s.Chat),
		Digest:      handlers.NewDigestHandler(log, s.Digest),
	}
}
