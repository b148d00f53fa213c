package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type GradeRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Grade, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.Grade, error)
}

type gradeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGradeRepo(db *gorm.DB, baseLog *logger.Logger) GradeRepo {
  repoLog := baseLog.With("repo", "GradeRepo")
  return &gradeRepo{db: db, log: repoLog}
}

func (r *gradeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Grade, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Grade
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *gradeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Grade, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Grade
  if err := transaction.WithContext(ctx).
    Order(`"order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
