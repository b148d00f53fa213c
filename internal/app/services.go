package app

import (
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Curriculum services.CurriculumService
	Progress   services.ProgressService
	Essay      services.EssaySubmissionService
	Activity   services.ActivityService
	Chat       services.ChatService
	Digest     services.DigestService
}

func wireServices(db *gorm.DB, log *logger.Logger, r *Repos, c *Clients) *Services {
	progress := services.NewProgressService(
		db, log,
		r.User, r.Exercise, r.Section, r.Chapter,
		r.ExerciseAttempt, r.SectionProgress, r.ChapterProgress,
	)
	activity := services.NewActivityService(db, log, r.Exercise, r.ExerciseAttempt, r.ChatMessage, c.ReportCache)

	return &Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserToken),
		User:       services.NewUserService(db, log, r.User),
		Curriculum: services.NewCurriculumService(db, log, r.User, r.Grade, r.Subject, r.Chapter, r.Exercise, r.ChapterProgress),
		Progress:   progress,
		Essay:      services.NewEssaySubmissionService(log, r.Exercise, c.EssayGrader, progress),
		Activity:   activity,
		Chat:       services.NewChatService(db, log, r.ChatConversation, r.ChatMessage, c.AI),
		Digest:     services.NewDigestService(db, log, r.User, activity, c.SendGrid),
	}
}
