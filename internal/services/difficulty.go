package services

import (
  "github.com/classbridge/classbridge-backend/internal/types"
)

// ResolveDifficulty maps a learner's numeric level to a content
// difficulty tier. Total over all ints; anything outside 1..12 falls
// back to easy.
func ResolveDifficulty(level int) types.Difficulty {
  switch {
  case level >= 1 && level <= 4:
    return types.DifficultyEasy
  case level >= 5 && level <= 8:
    return types.DifficultyMedium
  case level >= 9 && level <= 12:
    return types.DifficultyHard
  default:
    return types.DifficultyEasy
  }
}
