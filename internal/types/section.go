package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Section struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChapterID uuid.UUID      `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Chapter   *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Order     int            `gorm:"column:order;not null;default:0" json:"order"`
	Exercises []*Exercise    `gorm:"foreignKey:SectionID;references:ID" json:"exercises,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Section) TableName() string { return "section" }
