package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ExerciseRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exercise, error)
  GetByIDsWithHierarchy(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error)
  ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Exercise, error)
  ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Exercise, error)
}

type exerciseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
  repoLog := baseLog.With("repo", "ExerciseRepo")
  return &exerciseRepo{db: db, log: repoLog}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
  return db.Order(`"question"."order" ASC`)
}

func (r *exerciseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exercise, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Exercise
  if err := transaction.WithContext(ctx).
    Preload("Questions", orderedQuestions).
    Preload("Section").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

// GetByIDsWithHierarchy loads exercises with their full
// section/chapter/subject chain, in the same curriculum order as
// ListByChapterID so deduplication picks the same canonical row on
// every read path.
func (r *exerciseRepo) GetByIDsWithHierarchy(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Exercise
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Joins(`JOIN "section" ON "section"."id" = "exercise"."section_id" AND "section"."deleted_at" IS NULL`).
    Where(`"exercise"."id" IN ?`, ids).
    Order(`"section"."order" ASC, "exercise"."order" ASC, "exercise"."id" ASC`).
    Preload("Questions", orderedQuestions).
    Preload("Section").
    Preload("Section.Chapter").
    Preload("Section.Chapter.Subject").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ListByChapterID walks Section -> Exercise joins for one chapter,
// ordered by section order then exercise order. The result may contain
// the same logical exercise more than once; callers deduplicate.
func (r *exerciseRepo) ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Exercise, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Exercise
  if chapterID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Joins(`JOIN "section" ON "section"."id" = "exercise"."section_id" AND "section"."deleted_at" IS NULL`).
    Where(`"section"."chapter_id" = ?`, chapterID).
    Order(`"section"."order" ASC, "exercise"."order" ASC`).
    Preload("Questions", orderedQuestions).
    Preload("Section").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *exerciseRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Exercise, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Exercise
  if subjectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Joins(`JOIN "section" ON "section"."id" = "exercise"."section_id" AND "section"."deleted_at" IS NULL`).
    Joins(`JOIN "chapter" ON "chapter"."id" = "section"."chapter_id" AND "chapter"."deleted_at" IS NULL`).
    Where(`"chapter"."subject_id" = ?`, subjectID).
    Order(`"chapter"."order" ASC, "section"."order" ASC, "exercise"."order" ASC`).
    Preload("Questions", orderedQuestions).
    Preload("Section").
    Preload("Section.Chapter").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

