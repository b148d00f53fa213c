package services

import (
  "strings"
  "github.com/google/uuid"
  "github.com/classbridge/classbridge-backend/internal/types"
)

// GradingResult is the outcome of scoring one submitted answer set
// against an exercise's answer key.
type GradingResult struct {
  PerQuestion  map[uuid.UUID]types.AttemptAnswer `json:"per_question"`
  CorrectCount int                               `json:"correct_count"`
  TotalPoints  int                               `json:"total_points"`
  EarnedPoints int                               `json:"earned_points"`
  Score        float64                           `json:"score"`
  IsCompleted  bool                              `json:"is_completed"`
}

// GradeExercise scores submitted answers against the exercise's answer
// key. Pure computation, no side effects.
//
// multiple_choice compares trimmed, case-insensitive option keys.
// essay compares trimmed, case-insensitive free text against the key
// (image essays are graded by the vision collaborator and injected
// elsewhere, they never pass through this rule).
//
// An exercise is completed only when every question is correct; a
// partially correct submission keeps its score but is not completed.
func GradeExercise(ex *types.Exercise, submitted map[uuid.UUID]string) GradingResult {
  result := GradingResult{
    PerQuestion: make(map[uuid.UUID]types.AttemptAnswer, len(ex.Questions)),
  }

  for _, q := range ex.Questions {
    if q == nil {
      continue
    }
    answer := submitted[q.ID]
    correct := answersEqual(answer, q.Answer)

    earned := 0
    if correct {
      earned = q.Points
      result.CorrectCount++
    }
    result.TotalPoints += q.Points
    result.EarnedPoints += earned
    result.PerQuestion[q.ID] = types.AttemptAnswer{
      Answer:       answer,
      IsCorrect:    correct,
      Points:       q.Points,
      EarnedPoints: earned,
    }
  }

  if result.TotalPoints > 0 {
    result.Score = float64(result.EarnedPoints) / float64(result.TotalPoints) * 100
  }
  result.IsCompleted = len(result.PerQuestion) > 0 && result.CorrectCount == len(result.PerQuestion)
  return result
}

func answersEqual(submitted, key string) bool {
  return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(key))
}
