package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type SubjectRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subject, error)
  ListByGradeID(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID) ([]*types.Subject, error)
}

type subjectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
  repoLog := baseLog.With("repo", "SubjectRepo")
  return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Subject
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *subjectRepo) ListByGradeID(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID) ([]*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Subject
  if gradeID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("grade_id = ?", gradeID).
    Order(`"order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
