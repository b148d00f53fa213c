package services

import (
  "testing"

  "github.com/classbridge/classbridge-backend/internal/types"
)

func TestResolveDifficulty(t *testing.T) {
  tests := []struct {
    name  string
    level int
    want  types.Difficulty
  }{
    {"level 1 is easy", 1, types.DifficultyEasy},
    {"level 4 is easy", 4, types.DifficultyEasy},
    {"level 5 is medium", 5, types.DifficultyMedium},
    {"level 8 is medium", 8, types.DifficultyMedium},
    {"level 9 is hard", 9, types.DifficultyHard},
    {"level 12 is hard", 12, types.DifficultyHard},
    {"level 0 falls back to easy", 0, types.DifficultyEasy},
    {"level 13 falls back to easy", 13, types.DifficultyEasy},
    {"negative level falls back to easy", -3, types.DifficultyEasy},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      if got := ResolveDifficulty(tt.level); got != tt.want {
        t.Fatalf("ResolveDifficulty(%d) = %q, want %q", tt.level, got, tt.want)
      }
    })
  }
}
