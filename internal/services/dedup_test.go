package services

import (
  "testing"

  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/types"
)

func exercise(id uuid.UUID, title string, difficulty types.Difficulty) *types.Exercise {
  return &types.Exercise{ID: id, Title: title, Difficulty: difficulty}
}

func TestDeduplicateExercises(t *testing.T) {
  idA := uuid.New()
  idB := uuid.New()
  idC := uuid.New()

  tests := []struct {
    name    string
    in      []*types.Exercise
    wantIDs []uuid.UUID
  }{
    {
      name:    "empty input",
      in:      nil,
      wantIDs: []uuid.UUID{},
    },
    {
      name: "repeated id keeps first",
      in: []*types.Exercise{
        exercise(idA, "Fractions", types.DifficultyEasy),
        exercise(idA, "Fractions", types.DifficultyEasy),
      },
      wantIDs: []uuid.UUID{idA},
    },
    {
      name: "same title and difficulty with different ids keeps first",
      in: []*types.Exercise{
        exercise(idA, "Fractions", types.DifficultyEasy),
        exercise(idB, "Fractions", types.DifficultyEasy),
      },
      wantIDs: []uuid.UUID{idA},
    },
    {
      name: "same title different difficulty both kept",
      in: []*types.Exercise{
        exercise(idA, "Fractions", types.DifficultyEasy),
        exercise(idB, "Fractions", types.DifficultyHard),
      },
      wantIDs: []uuid.UUID{idA, idB},
    },
    {
      name: "title is trimmed before comparison",
      in: []*types.Exercise{
        exercise(idA, "Fractions", types.DifficultyEasy),
        exercise(idB, "  Fractions  ", types.DifficultyEasy),
      },
      wantIDs: []uuid.UUID{idA},
    },
    {
      name: "input order is preserved",
      in: []*types.Exercise{
        exercise(idC, "Decimals", types.DifficultyEasy),
        exercise(idA, "Fractions", types.DifficultyEasy),
        exercise(idC, "Decimals", types.DifficultyEasy),
        exercise(idB, "Percentages", types.DifficultyEasy),
      },
      wantIDs: []uuid.UUID{idC, idA, idB},
    },
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got := DeduplicateExercises(tt.in)
      if len(got) != len(tt.wantIDs) {
        t.Fatalf("got %d exercises, want %d", len(got), len(tt.wantIDs))
      }
      for i, want := range tt.wantIDs {
        if got[i].ID != want {
          t.Fatalf("position %d: got id %s, want %s", i, got[i].ID, want)
        }
      }
    })
  }
}

func TestFilterByDifficulty(t *testing.T) {
  easy := exercise(uuid.New(), "A", types.DifficultyEasy)
  medium := exercise(uuid.New(), "B", types.DifficultyMedium)
  hard := exercise(uuid.New(), "C", types.DifficultyHard)

  got := FilterByDifficulty([]*types.Exercise{easy, medium, hard, nil}, types.DifficultyMedium)
  if len(got) != 1 || got[0].ID != medium.ID {
    t.Fatalf("expected only the medium exercise, got %d entries", len(got))
  }
}
