package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type SectionRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Section, error)
  ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Section, error)
  CountExercisesBySectionID(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int64, error)
}

type sectionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
  repoLog := baseLog.With("repo", "SectionRepo")
  return &sectionRepo{db: db, log: repoLog}
}

func (r *sectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Section, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Section
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *sectionRepo) ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Section, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Section
  if chapterID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("chapter_id = ?", chapterID).
    Order(`"order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *sectionRepo) CountExercisesBySectionID(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if sectionID == uuid.Nil {
    return 0, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Exercise{}).
    Where("section_id = ?", sectionID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
