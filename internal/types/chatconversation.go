package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationKind string

const (
	ConversationFree     ConversationKind = "free_chat"
	ConversationExercise ConversationKind = "exercise_help"
)

type ChatConversation struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Kind      ConversationKind `gorm:"column:kind;not null;default:'free_chat'" json:"kind"`
	Title     string           `gorm:"column:title" json:"title"`
	CreatedAt time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChatConversation) TableName() string { return "chat_conversation" }
