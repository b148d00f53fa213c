package services

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/requestdata"
  "github.com/classbridge/classbridge-backend/internal/types"
)

// SubjectOverview is a subject with per-chapter progress and the
// learner's tier-filtered, deduplicated exercises for one user.
type SubjectOverview struct {
  Subject  *types.Subject     `json:"subject"`
  Chapters []*ChapterOverview `json:"chapters"`
}

type ChapterOverview struct {
  Chapter   *types.Chapter         `json:"chapter"`
  Progress  *types.ChapterProgress `json:"progress,omitempty"`
  Exercises []*types.Exercise      `json:"exercises"`
}

type CurriculumService interface {
  ListGrades(ctx context.Context) ([]*types.Grade, error)
  ListSubjects(ctx context.Context, gradeID uuid.UUID) ([]*types.Subject, error)
  GetSubjectOverview(ctx context.Context, userID, subjectID uuid.UUID) (*SubjectOverview, error)
}

type curriculumService struct {
  db                  *gorm.DB
  log                 *logger.Logger
  userRepo            repos.UserRepo
  gradeRepo           repos.GradeRepo
  subjectRepo         repos.SubjectRepo
  chapterRepo         repos.ChapterRepo
  exerciseRepo        repos.ExerciseRepo
  chapterProgressRepo repos.ChapterProgressRepo
}

func NewCurriculumService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  gradeRepo repos.GradeRepo,
  subjectRepo repos.SubjectRepo,
  chapterRepo repos.ChapterRepo,
  exerciseRepo repos.ExerciseRepo,
  chapterProgressRepo repos.ChapterProgressRepo,
) CurriculumService {
  serviceLog := log.With("service", "CurriculumService")
  return &curriculumService{
    db:                  db,
    log:                 serviceLog,
    userRepo:            userRepo,
    gradeRepo:           gradeRepo,
    subjectRepo:         subjectRepo,
    chapterRepo:         chapterRepo,
    exerciseRepo:        exerciseRepo,
    chapterProgressRepo: chapterProgressRepo,
  }
}

func (s *curriculumService) ListGrades(ctx context.Context) ([]*types.Grade, error) {
  grades, err := s.gradeRepo.List(ctx, nil)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  return grades, nil
}

func (s *curriculumService) ListSubjects(ctx context.Context, gradeID uuid.UUID) ([]*types.Subject, error) {
  if gradeID == uuid.Nil {
    return nil, apierr.Validation("grade id is required")
  }
  subjects, err := s.subjectRepo.ListByGradeID(ctx, nil, gradeID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  return subjects, nil
}

// GetSubjectOverview returns the subject's chapters with the user's
// rollups and the exercises of the learner's tier, deduplicated through
// the same collapse as every other read path so counts agree.
func (s *curriculumService) GetSubjectOverview(ctx context.Context, userID, subjectID uuid.UUID) (*SubjectOverview, error) {
  subject, err := s.subjectRepo.GetByID(ctx, nil, subjectID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("subject %s not found", subjectID)
    }
    return nil, apierr.Persistence(err)
  }

  chapters, err := s.chapterRepo.ListBySubjectID(ctx, nil, subjectID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }

  level, err := s.userLevel(ctx, userID)
  if err != nil {
    return nil, err
  }
  raw, err := s.exerciseRepo.ListBySubjectID(ctx, nil, subjectID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  byChapter := groupByChapter(DeduplicateExercises(FilterByDifficulty(raw, ResolveDifficulty(level))))

  overview := &SubjectOverview{Subject: subject, Chapters: make([]*ChapterOverview, 0, len(chapters))}
  for _, chapter := range chapters {
    entry := &ChapterOverview{Chapter: chapter, Exercises: byChapter[chapter.ID]}
    if entry.Exercises == nil {
      entry.Exercises = []*types.Exercise{}
    }
    progress, pErr := s.chapterProgressRepo.GetByUserAndChapterID(ctx, nil, userID, chapter.ID)
    if pErr == nil {
      entry.Progress = progress
    } else if !errors.Is(pErr, gorm.ErrRecordNotFound) {
      return nil, apierr.Persistence(pErr)
    }
    overview.Chapters = append(overview.Chapters, entry)
  }
  return overview, nil
}

func (s *curriculumService) userLevel(ctx context.Context, userID uuid.UUID) (int, error) {
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID == userID && rd.Level > 0 {
    return rd.Level, nil
  }
  user, err := s.userRepo.GetByID(ctx, nil, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return 0, apierr.NotFound("user %s not found", userID)
    }
    return 0, apierr.Persistence(err)
  }
  return user.Level, nil
}

// groupByChapter buckets an already deduplicated pool by the chapter its
// section belongs to, preserving pool order.
func groupByChapter(pool []*types.Exercise) map[uuid.UUID][]*types.Exercise {
  out := make(map[uuid.UUID][]*types.Exercise)
  for _, ex := range pool {
    if ex.Section == nil {
      continue
    }
    chapterID := ex.Section.ChapterID
    out[chapterID] = append(out[chapterID], ex)
  }
  return out
}
