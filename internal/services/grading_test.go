package services

import (
  "testing"

  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/types"
)

func mcExercise(points ...int) *types.Exercise {
  ex := &types.Exercise{ID: uuid.New(), Type: types.ExerciseTypeMultipleChoice}
  for i, p := range points {
    ex.Questions = append(ex.Questions, &types.Question{
      ID:     uuid.New(),
      Answer: "correct",
      Points: p,
      Order:  i,
    })
  }
  return ex
}

func TestGradeExercise(t *testing.T) {
  t.Run("partial credit keeps weighted score but not completion", func(t *testing.T) {
    ex := mcExercise(2, 3, 5)
    submitted := map[uuid.UUID]string{
      ex.Questions[0].ID: "correct",
      ex.Questions[1].ID: "wrong",
      ex.Questions[2].ID: "correct",
    }

    got := GradeExercise(ex, submitted)
    if got.Score != 70 {
      t.Fatalf("Score = %v, want 70", got.Score)
    }
    if got.CorrectCount != 2 {
      t.Fatalf("CorrectCount = %d, want 2", got.CorrectCount)
    }
    if got.EarnedPoints != 7 || got.TotalPoints != 10 {
      t.Fatalf("points = %d/%d, want 7/10", got.EarnedPoints, got.TotalPoints)
    }
    if got.IsCompleted {
      t.Fatal("partially correct submission must not be completed")
    }
  })

  t.Run("all correct completes", func(t *testing.T) {
    ex := mcExercise(1, 1)
    submitted := map[uuid.UUID]string{
      ex.Questions[0].ID: "correct",
      ex.Questions[1].ID: "correct",
    }

    got := GradeExercise(ex, submitted)
    if !got.IsCompleted {
      t.Fatal("expected completion when every question is correct")
    }
    if got.Score != 100 {
      t.Fatalf("Score = %v, want 100", got.Score)
    }
  })

  t.Run("comparison trims whitespace and ignores case", func(t *testing.T) {
    ex := mcExercise(1)
    got := GradeExercise(ex, map[uuid.UUID]string{ex.Questions[0].ID: "  CoRRect \n"})
    if !got.IsCompleted {
      t.Fatal("expected trimmed case-insensitive match to be correct")
    }
  })

  t.Run("missing answer is graded incorrect", func(t *testing.T) {
    ex := mcExercise(1, 1)
    got := GradeExercise(ex, map[uuid.UUID]string{ex.Questions[0].ID: "correct"})
    if got.CorrectCount != 1 {
      t.Fatalf("CorrectCount = %d, want 1", got.CorrectCount)
    }
    if got.IsCompleted {
      t.Fatal("an unanswered question must block completion")
    }
    entry, ok := got.PerQuestion[ex.Questions[1].ID]
    if !ok {
      t.Fatal("unanswered question must still appear in the result")
    }
    if entry.IsCorrect || entry.EarnedPoints != 0 {
      t.Fatalf("unanswered question graded as %+v, want incorrect with 0 points", entry)
    }
  })

  t.Run("empty submission scores zero", func(t *testing.T) {
    ex := mcExercise(2, 3)
    got := GradeExercise(ex, map[uuid.UUID]string{})
    if got.Score != 0 || got.IsCompleted {
      t.Fatalf("empty submission got score %v completed %v", got.Score, got.IsCompleted)
    }
  })

  t.Run("zero-point questions do not divide by zero", func(t *testing.T) {
    ex := mcExercise(0, 0)
    got := GradeExercise(ex, map[uuid.UUID]string{
      ex.Questions[0].ID: "correct",
      ex.Questions[1].ID: "correct",
    })
    if got.Score != 0 {
      t.Fatalf("Score = %v, want 0 when no points are at stake", got.Score)
    }
    if !got.IsCompleted {
      t.Fatal("all-correct submission completes even with zero points")
    }
  })
}
