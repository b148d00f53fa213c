package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ExerciseAttemptRepo interface {
  GetByUserAndExerciseID(ctx context.Context, tx *gorm.DB, userID, exerciseID uuid.UUID) ([]*types.ExerciseAttempt, error)
  GetByUserAndExerciseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exerciseIDs []uuid.UUID) ([]*types.ExerciseAttempt, error)
  GetByUserInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.ExerciseAttempt, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.ExerciseAttempt) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type exerciseAttemptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewExerciseAttemptRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseAttemptRepo {
  repoLog := baseLog.With("repo", "ExerciseAttemptRepo")
  return &exerciseAttemptRepo{db: db, log: repoLog}
}

// GetByUserAndExerciseID returns every row for the natural key, ordered
// oldest first. More than one row is an aggregation inconsistency the
// caller is expected to heal.
func (r *exerciseAttemptRepo) GetByUserAndExerciseID(ctx context.Context, tx *gorm.DB, userID, exerciseID uuid.UUID) ([]*types.ExerciseAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ExerciseAttempt
  if userID == uuid.Nil || exerciseID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *exerciseAttemptRepo) GetByUserAndExerciseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exerciseIDs []uuid.UUID) ([]*types.ExerciseAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ExerciseAttempt
  if userID == uuid.Nil || len(exerciseIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND exercise_id IN ?", userID, exerciseIDs).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetByUserInWindow selects attempts created inside [start, end).
func (r *exerciseAttemptRepo) GetByUserInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.ExerciseAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ExerciseAttempt
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// Upsert writes the attempt keyed by unique (user_id, exercise_id). The
// composite unique index serializes concurrent resubmissions of the same
// exercise; the row is overwritten in place, never duplicated.
func (r *exerciseAttemptRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ExerciseAttempt) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND exercise_id = ?", row.UserID, row.ExerciseID).
    Assign(map[string]interface{}{
      "answers":      row.Answers,
      "score":        row.Score,
      "total_points": row.TotalPoints,
      "is_completed": row.IsCompleted,
      "completed_at": row.CompletedAt,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *exerciseAttemptRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", ids).
    Delete(&types.ExerciseAttempt{}).Error
}
