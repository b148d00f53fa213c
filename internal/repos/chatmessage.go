package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ChatMessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ChatMessage) error
  ListByConversationID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.ChatMessage, error)
  CountUserMessagesInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) (int64, error)
}

type chatMessageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
  repoLog := baseLog.With("repo", "ChatMessageRepo")
  return &chatMessageRepo{db: db, log: repoLog}
}

func (r *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ChatMessage) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  return transaction.WithContext(ctx).Create(row).Error
}

func (r *chatMessageRepo) ListByConversationID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ChatMessage
  if conversationID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("conversation_id = ?", conversationID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// CountUserMessagesInWindow counts user-authored messages in free-chat
// conversations created inside [start, end). Plain cardinality, no
// dedup by content.
func (r *chatMessageRepo) CountUserMessagesInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if userID == uuid.Nil {
    return 0, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ChatMessage{}).
    Joins(`JOIN "chat_conversation" ON "chat_conversation"."id" = "chat_message"."conversation_id" AND "chat_conversation"."deleted_at" IS NULL`).
    Where(`"chat_message"."user_id" = ? AND "chat_message"."role" = ? AND "chat_conversation"."kind" = ?`, userID, types.ChatRoleUser, types.ConversationFree).
    Where(`"chat_message"."created_at" >= ? AND "chat_message"."created_at" < ?`, start, end).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
