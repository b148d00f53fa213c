package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExerciseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"exercise_id"`
	Exercise   *Exercise      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`
	Question   string         `gorm:"column:question;not null" json:"question"`
	Answer     string         `gorm:"column:answer;not null" json:"-"`
	Options    datatypes.JSON `gorm:"type:jsonb;column:options" json:"options,omitempty"`
	Points     int            `gorm:"column:points;not null;default:0" json:"points"`
	Order      int            `gorm:"column:order;not null;default:0" json:"order"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }
