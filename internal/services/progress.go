package services

import (
  "context"
  "errors"
  "sync"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/requestdata"
  "github.com/classbridge/classbridge-backend/internal/types"
)

// SubmissionResult reports one graded-and-saved exercise submission.
type SubmissionResult struct {
  ExerciseID     uuid.UUID     `json:"exercise_id"`
  Grading        GradingResult `json:"grading"`
  NewlyCompleted bool          `json:"newly_completed"`
  Attempt        *types.ExerciseAttempt `json:"attempt,omitempty"`
}

// BatchSubmissionResult reports a whole-chapter submission. Failures are
// isolated per exercise; the chapter rollup runs once afterwards over
// whatever attempts actually committed.
type BatchSubmissionResult struct {
  SubmittedCount  int                          `json:"submitted_count"`
  CompletedCount  int                          `json:"completed_count"`
  Succeeded       []uuid.UUID                  `json:"succeeded"`
  Failed          map[uuid.UUID]string         `json:"failed,omitempty"`
  PerExercise     map[uuid.UUID]*SubmissionResult `json:"per_exercise"`
  ChapterProgress *types.ChapterProgress       `json:"chapter_progress,omitempty"`
}

type ExerciseWithStatus struct {
  Exercise    *types.Exercise `json:"exercise"`
  Attempted   bool            `json:"attempted"`
  Score       float64         `json:"score"`
  IsCompleted bool            `json:"is_completed"`
  CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type ChapterView struct {
  Chapter   *types.Chapter         `json:"chapter"`
  Exercises []*ExerciseWithStatus  `json:"exercises"`
  Progress  *types.ChapterProgress `json:"progress"`
}

type ProgressService interface {
  SubmitExercise(ctx context.Context, userID, exerciseID uuid.UUID, answers map[uuid.UUID]string) (*SubmissionResult, error)
  SubmitChapter(ctx context.Context, userID, chapterID uuid.UUID, perExercise map[uuid.UUID]map[uuid.UUID]string) (*BatchSubmissionResult, error)
  InjectEssayGrade(ctx context.Context, userID, exerciseID, questionID uuid.UUID, grade EssayGrade) (*SubmissionResult, error)
  GetChapterView(ctx context.Context, userID, chapterID uuid.UUID) (*ChapterView, error)
  RecomputeChapterProgress(ctx context.Context, userID, chapterID uuid.UUID) (*types.ChapterProgress, error)
}

type progressService struct {
  db                  *gorm.DB
  log                 *logger.Logger
  userRepo            repos.UserRepo
  exerciseRepo        repos.ExerciseRepo
  sectionRepo         repos.SectionRepo
  chapterRepo         repos.ChapterRepo
  attemptRepo         repos.ExerciseAttemptRepo
  sectionProgressRepo repos.SectionProgressRepo
  chapterProgressRepo repos.ChapterProgressRepo
}

func NewProgressService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  exerciseRepo repos.ExerciseRepo,
  sectionRepo repos.SectionRepo,
  chapterRepo repos.ChapterRepo,
  attemptRepo repos.ExerciseAttemptRepo,
  sectionProgressRepo repos.SectionProgressRepo,
  chapterProgressRepo repos.ChapterProgressRepo,
) ProgressService {
  serviceLog := log.With("service", "ProgressService")
  return &progressService{
    db:                  db,
    log:                 serviceLog,
    userRepo:            userRepo,
    exerciseRepo:        exerciseRepo,
    sectionRepo:         sectionRepo,
    chapterRepo:         chapterRepo,
    attemptRepo:         attemptRepo,
    sectionProgressRepo: sectionProgressRepo,
    chapterProgressRepo: chapterProgressRepo,
  }
}

func (s *progressService) SubmitExercise(ctx context.Context, userID, exerciseID uuid.UUID, answers map[uuid.UUID]string) (*SubmissionResult, error) {
  if userID == uuid.Nil || exerciseID == uuid.Nil {
    return nil, apierr.Validation("user id and exercise id are required")
  }
  if answers == nil {
    return nil, apierr.Validation("answers are required")
  }

  res, ex, err := s.submitOne(ctx, userID, exerciseID, answers, nil)
  if err != nil {
    return nil, err
  }

  if ex.Section != nil {
    if _, err := s.RecomputeChapterProgress(ctx, userID, ex.Section.ChapterID); err != nil {
      // The attempt is committed; a failed rollup heals on the next
      // recomputation.
      s.log.Error("Chapter recomputation failed after submission", "user_id", userID, "chapter_id", ex.Section.ChapterID, "error", err)
    }
  }
  return res, nil
}

func (s *progressService) SubmitChapter(ctx context.Context, userID, chapterID uuid.UUID, perExercise map[uuid.UUID]map[uuid.UUID]string) (*BatchSubmissionResult, error) {
  if userID == uuid.Nil || chapterID == uuid.Nil {
    return nil, apierr.Validation("user id and chapter id are required")
  }
  if len(perExercise) == 0 {
    return nil, apierr.Validation("at least one exercise submission is required")
  }
  if _, err := s.chapterRepo.GetByID(ctx, nil, chapterID); err != nil {
    return nil, s.mapNotFound(err, "chapter %s", chapterID)
  }

  batch := &BatchSubmissionResult{
    Failed:      map[uuid.UUID]string{},
    PerExercise: map[uuid.UUID]*SubmissionResult{},
  }

  // Exercises are independent: grade and persist them concurrently,
  // then join before the single chapter-level recomputation.
  var mu sync.Mutex
  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(4)
  for exerciseID, answers := range perExercise {
    exerciseID, answers := exerciseID, answers
    g.Go(func() error {
      res, _, err := s.submitOne(gctx, userID, exerciseID, answers, &chapterID)
      mu.Lock()
      defer mu.Unlock()
      if err != nil {
        // One exercise failing must not abort the batch.
        batch.Failed[exerciseID] = err.Error()
        s.log.Warn("Exercise submission failed in batch", "user_id", userID, "exercise_id", exerciseID, "error", err)
        return nil
      }
      batch.Succeeded = append(batch.Succeeded, exerciseID)
      batch.PerExercise[exerciseID] = res
      if res.Grading.IsCompleted {
        batch.CompletedCount++
      }
      return nil
    })
  }
  _ = g.Wait()

  batch.SubmittedCount = len(batch.Succeeded)

  progress, err := s.RecomputeChapterProgress(ctx, userID, chapterID)
  if err != nil {
    s.log.Error("Chapter recomputation failed after batch", "user_id", userID, "chapter_id", chapterID, "error", err)
  } else {
    batch.ChapterProgress = progress
  }
  return batch, nil
}

func (s *progressService) InjectEssayGrade(ctx context.Context, userID, exerciseID, questionID uuid.UUID, grade EssayGrade) (*SubmissionResult, error) {
  if userID == uuid.Nil || exerciseID == uuid.Nil || questionID == uuid.Nil {
    return nil, apierr.Validation("user id, exercise id and question id are required")
  }

  ex, err := s.exerciseRepo.GetByID(ctx, nil, exerciseID)
  if err != nil {
    return nil, s.mapNotFound(err, "exercise %s", exerciseID)
  }
  if ex.Type != types.ExerciseTypeEssay {
    return nil, apierr.Validation("exercise %s is not an essay exercise", exerciseID)
  }

  level, err := s.userLevel(ctx, userID)
  if err != nil {
    return nil, err
  }
  if ex.Difficulty != ResolveDifficulty(level) {
    return nil, apierr.NotFound("exercise %s is outside the learner's difficulty tier", exerciseID)
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

  prior, wasCompleted, err := s.resolveAttempt(ctx, userID, exerciseID)
  if err != nil {
    return nil, err
  }

  answerMap := map[uuid.UUID]types.AttemptAnswer{}
  if prior != nil {
    answerMap, err = prior.AnswerMap()
    if err != nil {
      return nil, apierr.Persistence(err)
    }
  }

  earned := 0
  if grade.IsCorrect {
    earned = question.Points
  }
  answerMap[questionID] = types.AttemptAnswer{
    Answer:       "[image submission]",
    IsCorrect:    grade.IsCorrect,
    Points:       question.Points,
    EarnedPoints: earned,
    Feedback:     grade.Feedback,
    Score:        grade.Score,
  }

  result := regradeFromAnswers(ex, answerMap)
  res, err := s.persistAttempt(ctx, userID, ex, prior, wasCompleted, result)
  if err != nil {
    return nil, err
  }

  if ex.Section != nil {
    if _, err := s.RecomputeChapterProgress(ctx, userID, ex.Section.ChapterID); err != nil {
      s.log.Error("Chapter recomputation failed after essay grade", "user_id", userID, "chapter_id", ex.Section.ChapterID, "error", err)
    }
  }
  return res, nil
}

func (s *progressService) GetChapterView(ctx context.Context, userID, chapterID uuid.UUID) (*ChapterView, error) {
  chapter, err := s.chapterRepo.GetByIDWithSubject(ctx, nil, chapterID)
  if err != nil {
    return nil, s.mapNotFound(err, "chapter %s", chapterID)
  }

  pool, attempts, err := s.chapterPool(ctx, userID, chapterID)
  if err != nil {
    return nil, err
  }

  view := &ChapterView{Chapter: chapter, Exercises: make([]*ExerciseWithStatus, 0, len(pool))}
  for _, ex := range pool {
    status := &ExerciseWithStatus{Exercise: ex}
    if att, ok := attempts[ex.ID]; ok {
      status.Attempted = true
      status.Score = att.Score
      status.IsCompleted = att.IsCompleted
      status.CompletedAt = att.CompletedAt
    }
    view.Exercises = append(view.Exercises, status)
  }

  rollup := computeChapterRollup(pool, attempts)
  view.Progress = &types.ChapterProgress{
    UserID:             userID,
    ChapterID:          chapterID,
    Status:             rollup.Status,
    Progress:           rollup.Progress,
    CompletedExercises: rollup.CompletedExercises,
    TotalExercises:     rollup.TotalExercises,
    CorrectQuestions:   rollup.CorrectQuestions,
    TotalQuestions:     rollup.TotalQuestions,
  }
  return view, nil
}

// RecomputeChapterProgress rebuilds the chapter rollup from the
// deduplicated exercise set and the user's attempts. Recomputation from
// source of truth, never incremental, so drift cannot accumulate.
func (s *progressService) RecomputeChapterProgress(ctx context.Context, userID, chapterID uuid.UUID) (*types.ChapterProgress, error) {
  pool, attempts, err := s.chapterPool(ctx, userID, chapterID)
  if err != nil {
    return nil, err
  }

  rollup := computeChapterRollup(pool, attempts)
  row := &types.ChapterProgress{
    UserID:             userID,
    ChapterID:          chapterID,
    Status:             rollup.Status,
    Progress:           rollup.Progress,
    CompletedExercises: rollup.CompletedExercises,
    TotalExercises:     rollup.TotalExercises,
    CorrectQuestions:   rollup.CorrectQuestions,
    TotalQuestions:     rollup.TotalQuestions,
  }
  if err := s.chapterProgressRepo.Upsert(ctx, nil, row); err != nil {
    return nil, apierr.Persistence(err)
  }
  return row, nil
}

// submitOne grades one exercise and commits its attempt plus the
// section-level counter. It never touches chapter rollups; the caller
// owns that barrier.
func (s *progressService) submitOne(ctx context.Context, userID, exerciseID uuid.UUID, answers map[uuid.UUID]string, wantChapter *uuid.UUID) (*SubmissionResult, *types.Exercise, error) {
  ex, err := s.exerciseRepo.GetByID(ctx, nil, exerciseID)
  if err != nil {
    return nil, nil, s.mapNotFound(err, "exercise %s", exerciseID)
  }
  if wantChapter != nil && (ex.Section == nil || ex.Section.ChapterID != *wantChapter) {
    return nil, nil, apierr.NotFound("exercise %s does not belong to chapter %s", exerciseID, *wantChapter)
  }

  level, err := s.userLevel(ctx, userID)
  if err != nil {
    return nil, nil, err
  }
  if ex.Difficulty != ResolveDifficulty(level) {
    return nil, nil, apierr.NotFound("exercise %s is outside the learner's difficulty tier", exerciseID)
  }

  known := make(map[uuid.UUID]struct{}, len(ex.Questions))
  for _, q := range ex.Questions {
    if q != nil {
      known[q.ID] = struct{}{}
    }
  }
  for qid := range answers {
    if _, ok := known[qid]; !ok {
      return nil, nil, apierr.Validation("question %s does not belong to exercise %s", qid, exerciseID)
    }
  }

  prior, wasCompleted, err := s.resolveAttempt(ctx, userID, exerciseID)
  if err != nil {
    return nil, nil, err
  }

  result := GradeExercise(ex, answers)
  res, err := s.persistAttempt(ctx, userID, ex, prior, wasCompleted, result)
  if err != nil {
    return nil, nil, err
  }
  return res, ex, nil
}

func (s *progressService) persistAttempt(ctx context.Context, userID uuid.UUID, ex *types.Exercise, prior *types.ExerciseAttempt, wasCompleted bool, result GradingResult) (*SubmissionResult, error) {
  attempt := prior
  if attempt == nil {
    attempt = &types.ExerciseAttempt{UserID: userID, ExerciseID: ex.ID}
  }
  if err := attempt.SetAnswerMap(result.PerQuestion); err != nil {
    return nil, apierr.Persistence(err)
  }
  attempt.Score = result.Score
  attempt.TotalPoints = result.TotalPoints
  attempt.IsCompleted = result.IsCompleted
  switch {
  case result.IsCompleted && !wasCompleted:
    now := time.Now().UTC()
    attempt.CompletedAt = &now
  case !result.IsCompleted:
    attempt.CompletedAt = nil
  }

  if err := s.attemptRepo.Upsert(ctx, nil, attempt); err != nil {
    return nil, apierr.Persistence(err)
  }

  // The counter moves only on completion transitions, in both
  // directions, so a completed -> incomplete -> completed sequence
  // nets out to one.
  newlyCompleted := result.IsCompleted && !wasCompleted
  switch {
  case newlyCompleted:
    if err := s.bumpSectionProgress(ctx, userID, ex.SectionID); err != nil {
      // The attempt row is the source of truth; the counter can be
      // reconciled later, so the submission still succeeds.
      s.log.Error("Section progress increment failed", "user_id", userID, "section_id", ex.SectionID, "error", err)
    }
  case wasCompleted && !result.IsCompleted:
    if err := s.sectionProgressRepo.DecrementCompleted(ctx, nil, userID, ex.SectionID); err != nil {
      s.log.Error("Section progress decrement failed", "user_id", userID, "section_id", ex.SectionID, "error", err)
    }
  }

  return &SubmissionResult{
    ExerciseID:     ex.ID,
    Grading:        result,
    NewlyCompleted: newlyCompleted,
    Attempt:        attempt,
  }, nil
}

// resolveAttempt loads the attempt for the natural key. Finding more
// than one row is an aggregation inconsistency: keep the earliest,
// delete the rest, and carry on.
func (s *progressService) resolveAttempt(ctx context.Context, userID, exerciseID uuid.UUID) (*types.ExerciseAttempt, bool, error) {
  rows, err := s.attemptRepo.GetByUserAndExerciseID(ctx, nil, userID, exerciseID)
  if err != nil {
    return nil, false, apierr.Persistence(err)
  }
  if len(rows) == 0 {
    return nil, false, nil
  }
  if len(rows) > 1 {
    s.log.Error("Duplicate exercise attempts for natural key, healing", "user_id", userID, "exercise_id", exerciseID, "count", len(rows))
    extra := make([]uuid.UUID, 0, len(rows)-1)
    for _, row := range rows[1:] {
      extra = append(extra, row.ID)
    }
    if err := s.attemptRepo.FullDeleteByIDs(ctx, nil, extra); err != nil {
      return nil, false, apierr.Inconsistency("duplicate attempts for user %s exercise %s could not be healed: %v", userID, exerciseID, err)
    }
  }
  return rows[0], rows[0].IsCompleted, nil
}

func (s *progressService) bumpSectionProgress(ctx context.Context, userID, sectionID uuid.UUID) error {
  _, err := s.sectionProgressRepo.GetByUserAndSectionID(ctx, nil, userID, sectionID)
  if err != nil {
    if !errors.Is(err, gorm.ErrRecordNotFound) {
      return err
    }
    total, cErr := s.sectionRepo.CountExercisesBySectionID(ctx, nil, sectionID)
    if cErr != nil {
      return cErr
    }
    if uErr := s.sectionProgressRepo.Upsert(ctx, nil, &types.SectionProgress{
      UserID:         userID,
      SectionID:      sectionID,
      TotalExercises: int(total),
    }); uErr != nil {
      return uErr
    }
  }
  return s.sectionProgressRepo.IncrementCompleted(ctx, nil, userID, sectionID)
}

// chapterPool returns the chapter's deduplicated exercises for the
// learner's tier plus the user's attempts keyed by exercise id.
func (s *progressService) chapterPool(ctx context.Context, userID, chapterID uuid.UUID) ([]*types.Exercise, map[uuid.UUID]*types.ExerciseAttempt, error) {
  raw, err := s.exerciseRepo.ListByChapterID(ctx, nil, chapterID)
  if err != nil {
    return nil, nil, apierr.Persistence(err)
  }

  level, err := s.userLevel(ctx, userID)
  if err != nil {
    return nil, nil, err
  }
  pool := DeduplicateExercises(FilterByDifficulty(raw, ResolveDifficulty(level)))

  ids := make([]uuid.UUID, 0, len(pool))
  for _, ex := range pool {
    ids = append(ids, ex.ID)
  }
  rows, err := s.attemptRepo.GetByUserAndExerciseIDs(ctx, nil, userID, ids)
  if err != nil {
    return nil, nil, apierr.Persistence(err)
  }

  attempts := make(map[uuid.UUID]*types.ExerciseAttempt, len(rows))
  for _, row := range rows {
    if _, ok := attempts[row.ExerciseID]; ok {
      // Rows are ordered oldest first; keep the earliest and let the
      // next submission heal the duplicates.
      s.log.Error("Duplicate exercise attempts found during rollup", "user_id", userID, "exercise_id", row.ExerciseID)
      continue
    }
    attempts[row.ExerciseID] = row
  }
  return pool, attempts, nil
}

func (s *progressService) userLevel(ctx context.Context, userID uuid.UUID) (int, error) {
  if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID == userID && rd.Level > 0 {
    return rd.Level, nil
  }
  user, err := s.userRepo.GetByID(ctx, nil, userID)
  if err != nil {
    return 0, s.mapNotFound(err, "user %s", userID)
  }
  return user.Level, nil
}

func (s *progressService) mapNotFound(err error, format string, args ...any) error {
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return apierr.NotFound(format+" not found", args...)
  }
  return apierr.Persistence(err)
}

type chapterRollup struct {
  CompletedExercises int
  TotalExercises     int
  CorrectQuestions   int
  TotalQuestions     int
  Progress           int
  Status             types.ProgressStatus
}

// computeChapterRollup derives chapter progress from the deduplicated
// exercise pool and the attempts against it.
func computeChapterRollup(pool []*types.Exercise, attempts map[uuid.UUID]*types.ExerciseAttempt) chapterRollup {
  rollup := chapterRollup{Status: types.ProgressNotStarted}
  for _, ex := range pool {
    rollup.TotalExercises++
    rollup.TotalQuestions += len(ex.Questions)

    att, ok := attempts[ex.ID]
    if !ok {
      continue
    }
    if att.IsCompleted {
      rollup.CompletedExercises++
    }
    answerMap, err := att.AnswerMap()
    if err != nil {
      continue
    }
    for _, q := range ex.Questions {
      if q == nil {
        continue
      }
      if entry, found := answerMap[q.ID]; found && entry.IsCorrect {
        rollup.CorrectQuestions++
      }
    }
  }

  if rollup.TotalExercises > 0 {
    rollup.Progress = rollup.CompletedExercises * 100 / rollup.TotalExercises
  }
  switch {
  case rollup.TotalExercises > 0 && rollup.CompletedExercises == rollup.TotalExercises:
    rollup.Status = types.ProgressCompleted
  case rollup.CompletedExercises > 0:
    rollup.Status = types.ProgressInProgress
  }
  return rollup
}

// regradeFromAnswers rebuilds attempt-level aggregates from a stored
// answer map, used when an externally graded answer is injected.
func regradeFromAnswers(ex *types.Exercise, answerMap map[uuid.UUID]types.AttemptAnswer) GradingResult {
  result := GradingResult{PerQuestion: make(map[uuid.UUID]types.AttemptAnswer, len(ex.Questions))}
  answered := 0
  for _, q := range ex.Questions {
    if q == nil {
      continue
    }
    result.TotalPoints += q.Points
    entry, ok := answerMap[q.ID]
    if !ok {
      continue
    }
    answered++
    result.PerQuestion[q.ID] = entry
    result.EarnedPoints += entry.EarnedPoints
    if entry.IsCorrect {
      result.CorrectCount++
    }
  }
  if result.TotalPoints > 0 {
    result.Score = float64(result.EarnedPoints) / float64(result.TotalPoints) * 100
  }
  questionCount := 0
  for _, q := range ex.Questions {
    if q != nil {
      questionCount++
    }
  }
  result.IsCompleted = questionCount > 0 && result.CorrectCount == questionCount
  return result
}
