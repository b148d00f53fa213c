package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ChapterProgressRepo interface {
  GetByUserAndChapterID(ctx context.Context, tx *gorm.DB, userID, chapterID uuid.UUID) (*types.ChapterProgress, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.ChapterProgress) error
}

type chapterProgressRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChapterProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChapterProgressRepo {
  repoLog := baseLog.With("repo", "ChapterProgressRepo")
  return &chapterProgressRepo{db: db, log: repoLog}
}

func (r *chapterProgressRepo) GetByUserAndChapterID(ctx context.Context, tx *gorm.DB, userID, chapterID uuid.UUID) (*types.ChapterProgress, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ChapterProgress
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND chapter_id = ?", userID, chapterID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

// Upsert by unique user_id + chapter_id.
func (r *chapterProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ChapterProgress) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND chapter_id = ?", row.UserID, row.ChapterID).
    Assign(map[string]interface{}{
      "status":              row.Status,
      "progress":            row.Progress,
      "completed_exercises": row.CompletedExercises,
      "total_exercises":     row.TotalExercises,
      "correct_questions":   row.CorrectQuestions,
      "total_questions":     row.TotalQuestions,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}
