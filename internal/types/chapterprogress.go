package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// ChapterProgress is recomputed from the deduplicated exercise set on
// every affecting submission, never maintained incrementally.
type ChapterProgress struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_chapter,unique" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ChapterID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_chapter,unique" json:"chapter_id"`
	Chapter            *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	Status             ProgressStatus `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Progress           int            `gorm:"column:progress;not null;default:0" json:"progress"`
	CompletedExercises int            `gorm:"column:completed_exercises;not null;default:0" json:"completed_exercises"`
	TotalExercises     int            `gorm:"column:total_exercises;not null;default:0" json:"total_exercises"`
	CorrectQuestions   int            `gorm:"column:correct_questions;not null;default:0" json:"correct_questions"`
	TotalQuestions     int            `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChapterProgress) TableName() string { return "chapter_progress" }
