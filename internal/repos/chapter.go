package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ChapterRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error)
  GetByIDWithSubject(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error)
  ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error)
}

type chapterRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
  repoLog := baseLog.With("repo", "ChapterRepo")
  return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Chapter
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *chapterRepo) GetByIDWithSubject(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Chapter
  if err := transaction.WithContext(ctx).
    Preload("Subject").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *chapterRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Chapter
  if subjectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("subject_id = ?", subjectID).
    Order(`"order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
