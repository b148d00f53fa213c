package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConversationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation   *ChatConversation `gorm:"constraint:OnDelete:CASCADE;foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Role           string            `gorm:"column:role;not null" json:"role"`
	Content        string            `gorm:"column:content;not null" json:"content"`
	CreatedAt      time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChatMessage) TableName() string { return "chat_message" }
