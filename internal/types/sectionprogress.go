package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionProgress struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_section,unique" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SectionID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_section,unique" json:"section_id"`
	Section            *Section       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	CompletedExercises int            `gorm:"column:completed_exercises;not null;default:0" json:"completed_exercises"`
	TotalExercises     int            `gorm:"column:total_exercises;not null;default:0" json:"total_exercises"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SectionProgress) TableName() string { return "section_progress" }
