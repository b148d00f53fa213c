package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ChatConversationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ChatConversation) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChatConversation, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChatConversation, error)
}

type chatConversationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatConversationRepo(db *gorm.DB, baseLog *logger.Logger) ChatConversationRepo {
  repoLog := baseLog.With("repo", "ChatConversationRepo")
  return &chatConversationRepo{db: db, log: repoLog}
}

func (r *chatConversationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ChatConversation) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  return transaction.WithContext(ctx).Create(row).Error
}

func (r *chatConversationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChatConversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ChatConversation
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *chatConversationRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChatConversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ChatConversation
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
