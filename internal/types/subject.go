package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GradeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"grade_id"`
	Grade     *Grade         `gorm:"constraint:OnDelete:CASCADE;foreignKey:GradeID;references:ID" json:"grade,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Order     int            `gorm:"column:order;not null;default:0" json:"order"`
	Chapters  []*Chapter     `gorm:"foreignKey:SubjectID;references:ID" json:"chapters,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Subject) TableName() string { return "subject" }
