package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type ExerciseType string

const (
	ExerciseTypeMultipleChoice ExerciseType = "multiple_choice"
	ExerciseTypeEssay          ExerciseType = "essay"
)

// Exercise belongs to exactly one Section. The same logical exercise may
// be linked into several sections; (Title, Difficulty) is its identity
// for deduplication.
type Exercise struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"section_id"`
	Section    *Section       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Difficulty Difficulty     `gorm:"column:difficulty;not null;default:'easy'" json:"difficulty"`
	Type       ExerciseType   `gorm:"column:type;not null;default:'multiple_choice'" json:"type"`
	Points     int            `gorm:"column:points;not null;default:0" json:"points"`
	Order      int            `gorm:"column:order;not null;default:0" json:"order"`
	Questions  []*Question    `gorm:"foreignKey:ExerciseID;references:ID" json:"questions,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string { return "exercise" }
