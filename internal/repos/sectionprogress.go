package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type SectionProgressRepo interface {
  GetByUserAndSectionID(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) (*types.SectionProgress, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionProgress) error
  IncrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error
  DecrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error
}

type sectionProgressRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSectionProgressRepo(db *gorm.DB, baseLog *logger.Logger) SectionProgressRepo {
  repoLog := baseLog.With("repo", "SectionProgressRepo")
  return &sectionProgressRepo{db: db, log: repoLog}
}

func (r *sectionProgressRepo) GetByUserAndSectionID(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) (*types.SectionProgress, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.SectionProgress
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND section_id = ?", userID, sectionID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

// Upsert by unique user_id + section_id.
func (r *sectionProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionProgress) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND section_id = ?", row.UserID, row.SectionID).
    Assign(map[string]interface{}{
      "completed_exercises": row.CompletedExercises,
      "total_exercises":     row.TotalExercises,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

// IncrementCompleted bumps completed_exercises by one. The caller owns
// the idempotency check (only call on the first transition to completed).
func (r *sectionProgressRepo) IncrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if userID == uuid.Nil || sectionID == uuid.Nil {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.SectionProgress{}).
    Where("user_id = ? AND section_id = ?", userID, sectionID).
    Update("completed_exercises", gorm.Expr("completed_exercises + 1")).Error
}

// DecrementCompleted undoes one completion, clamped at zero. Called when
// a resubmission flips a previously completed attempt back to incomplete.
func (r *sectionProgressRepo) DecrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if userID == uuid.Nil || sectionID == uuid.Nil {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.SectionProgress{}).
    Where("user_id = ? AND section_id = ?", userID, sectionID).
    Update("completed_exercises", gorm.Expr("GREATEST(completed_exercises - 1, 0)")).Error
}
