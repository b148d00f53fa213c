package services

import (
  "testing"

  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/types"
)

func attemptFor(t *testing.T, ex *types.Exercise, correct map[uuid.UUID]bool, completed bool) *types.ExerciseAttempt {
  t.Helper()
  answers := map[uuid.UUID]types.AttemptAnswer{}
  for _, q := range ex.Questions {
    isCorrect := correct[q.ID]
    earned := 0
    if isCorrect {
      earned = q.Points
    }
    answers[q.ID] = types.AttemptAnswer{
      Answer:       "x",
      IsCorrect:    isCorrect,
      Points:       q.Points,
      EarnedPoints: earned,
    }
  }
  attempt := &types.ExerciseAttempt{UserID: uuid.New(), ExerciseID: ex.ID, IsCompleted: completed}
  if err := attempt.SetAnswerMap(answers); err != nil {
    t.Fatalf("SetAnswerMap failed: %v", err)
  }
  return attempt
}

func TestComputeChapterRollup(t *testing.T) {
  exA := mcExercise(1, 1)
  exB := mcExercise(1)

  t.Run("no attempts is not started", func(t *testing.T) {
    got := computeChapterRollup([]*types.Exercise{exA, exB}, nil)
    if got.Status != types.ProgressNotStarted {
      t.Fatalf("Status = %q, want not_started", got.Status)
    }
    if got.TotalExercises != 2 || got.TotalQuestions != 3 {
      t.Fatalf("totals = %d exercises, %d questions, want 2 and 3", got.TotalExercises, got.TotalQuestions)
    }
    if got.Progress != 0 {
      t.Fatalf("Progress = %d, want 0", got.Progress)
    }
  })

  t.Run("one completed exercise is in progress", func(t *testing.T) {
    attempts := map[uuid.UUID]*types.ExerciseAttempt{
      exA.ID: attemptFor(t, exA, map[uuid.UUID]bool{
        exA.Questions[0].ID: true,
        exA.Questions[1].ID: true,
      }, true),
    }
    got := computeChapterRollup([]*types.Exercise{exA, exB}, attempts)
    if got.Status != types.ProgressInProgress {
      t.Fatalf("Status = %q, want in_progress", got.Status)
    }
    if got.CompletedExercises != 1 {
      t.Fatalf("CompletedExercises = %d, want 1", got.CompletedExercises)
    }
    if got.CorrectQuestions != 2 {
      t.Fatalf("CorrectQuestions = %d, want 2", got.CorrectQuestions)
    }
    if got.Progress != 50 {
      t.Fatalf("Progress = %d, want 50", got.Progress)
    }
  })

  t.Run("attempted but nothing completed stays not started", func(t *testing.T) {
    attempts := map[uuid.UUID]*types.ExerciseAttempt{
      exA.ID: attemptFor(t, exA, map[uuid.UUID]bool{exA.Questions[0].ID: true}, false),
    }
    got := computeChapterRollup([]*types.Exercise{exA, exB}, attempts)
    if got.Status != types.ProgressNotStarted {
      t.Fatalf("Status = %q, want not_started", got.Status)
    }
    if got.CorrectQuestions != 1 {
      t.Fatalf("CorrectQuestions = %d, want 1", got.CorrectQuestions)
    }
  })

  t.Run("all exercises completed", func(t *testing.T) {
    attempts := map[uuid.UUID]*types.ExerciseAttempt{
      exA.ID: attemptFor(t, exA, map[uuid.UUID]bool{
        exA.Questions[0].ID: true,
        exA.Questions[1].ID: true,
      }, true),
      exB.ID: attemptFor(t, exB, map[uuid.UUID]bool{exB.Questions[0].ID: true}, true),
    }
    got := computeChapterRollup([]*types.Exercise{exA, exB}, attempts)
    if got.Status != types.ProgressCompleted {
      t.Fatalf("Status = %q, want completed", got.Status)
    }
    if got.Progress != 100 {
      t.Fatalf("Progress = %d, want 100", got.Progress)
    }
  })

  t.Run("empty pool is not started", func(t *testing.T) {
    got := computeChapterRollup(nil, nil)
    if got.Status != types.ProgressNotStarted || got.Progress != 0 {
      t.Fatalf("empty pool rollup = %+v", got)
    }
  })
}

func TestRegradeFromAnswers(t *testing.T) {
  ex := mcExercise(2, 3)

  t.Run("every question correct completes", func(t *testing.T) {
    answers := map[uuid.UUID]types.AttemptAnswer{
      ex.Questions[0].ID: {IsCorrect: true, Points: 2, EarnedPoints: 2},
      ex.Questions[1].ID: {IsCorrect: true, Points: 3, EarnedPoints: 3},
    }
    got := regradeFromAnswers(ex, answers)
    if !got.IsCompleted || got.Score != 100 {
      t.Fatalf("got completed=%v score=%v, want completed with 100", got.IsCompleted, got.Score)
    }
  })

  t.Run("missing question blocks completion", func(t *testing.T) {
    answers := map[uuid.UUID]types.AttemptAnswer{
      ex.Questions[0].ID: {IsCorrect: true, Points: 2, EarnedPoints: 2},
    }
    got := regradeFromAnswers(ex, answers)
    if got.IsCompleted {
      t.Fatal("completion requires an answer for every question")
    }
    if got.Score != 40 {
      t.Fatalf("Score = %v, want 40", got.Score)
    }
  })

  t.Run("stale answer for removed question is dropped", func(t *testing.T) {
    answers := map[uuid.UUID]types.AttemptAnswer{
      ex.Questions[0].ID: {IsCorrect: true, Points: 2, EarnedPoints: 2},
      uuid.New():         {IsCorrect: true, Points: 5, EarnedPoints: 5},
    }
    got := regradeFromAnswers(ex, answers)
    if got.EarnedPoints != 2 {
      t.Fatalf("EarnedPoints = %d, want 2 (stale entry ignored)", got.EarnedPoints)
    }
    if len(got.PerQuestion) != 1 {
      t.Fatalf("PerQuestion has %d entries, want 1", len(got.PerQuestion))
    }
  })
}
