package app

import (
	"gorm.io/gorm"

	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Grade            repos.GradeRepo
	Subject          repos.SubjectRepo
	Chapter          repos.ChapterRepo
	Section          repos.SectionRepo
	Exercise         repos.ExerciseRepo
	ExerciseAttempt  repos.ExerciseAttemptRepo
	SectionProgress  repos.SectionProgressRepo
	ChapterProgress  repos.ChapterProgressRepo
	ChatConversation repos.ChatConversationRepo
	ChatMessage      repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Grade:            repos.NewGradeRepo(db, log),
		Subject:          repos.NewSubjectRepo(db, log),
		Chapter:          repos.NewChapterRepo(db, log),
		Section:          repos.NewSectionRepo(db, log),
		Exercise:         repos.NewExerciseRepo(db, log),
		ExerciseAttempt:  repos.NewExerciseAttemptRepo(db, log),
		SectionProgress:  repos.NewSectionProgressRepo(db, log),
		ChapterProgress:  repos.NewChapterProgressRepo(db, log),
		ChatConversation: repos.NewChatConversationRepo(db, log),
		ChatMessage:      repos.NewChatMessageRepo(db, log),
	}
}
