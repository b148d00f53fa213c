package services

import (
  "context"
  "errors"
  "io"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type EssaySubmissionService interface {
  SubmitImage(ctx context.Context, userID, exerciseID, questionID uuid.UUID, image io.Reader) (*SubmissionResult, error)
}

type essaySubmissionService struct {
  log          *logger.Logger
  exerciseRepo repos.ExerciseRepo
  grader       EssayGrader
  progress     ProgressService
}

func NewEssaySubmissionService(log *logger.Logger, exerciseRepo repos.ExerciseRepo, grader EssayGrader, progress ProgressService) EssaySubmissionService {
  return &essaySubmissionService{
    log:          log.With("service", "EssaySubmissionService"),
    exerciseRepo: exerciseRepo,
    grader:       grader,
    progress:     progress,
  }
}

// SubmitImage transcribes and grades a photographed essay answer, then
// folds the verdict into the learner's attempt and progress rollups.
func (s *essaySubmissionService) SubmitImage(ctx context.Context, userID, exerciseID, questionID uuid.UUID, image io.Reader) (*SubmissionResult, error) {
  ex, err := s.exerciseRepo.GetByID(ctx, nil, exerciseID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("exercise %s not found", exerciseID)
    }
    return nil, apierr.Persistence(err)
  }
  if ex.Type != types.ExerciseTypeEssay {
    return nil, apierr.Validation("exercise %s does not accept image submissions", exerciseID)
  }

  var question *types.Question
  for _, q := range ex.Questions {
    if q != nil && q.ID == questionID {
      question = q
      break
    }
  }
  if question == nil {
    return nil, apierr.NotFound("question %s does not belong to exercise %s", questionID, exerciseID)
  }

  grade, err := s.grader.GradeImage(ctx, question.Answer, image)
  if err != nil {
    s.log.Error("Essay image grading failed", "user_id", userID, "exercise_id", exerciseID, "error", err)
    return nil, apierr.New(502, "upstream_error", err)
  }

  return s.progress.InjectEssayGrade(ctx, userID, exerciseID, questionID, grade)
}
