package services

import (
  "strings"
  "github.com/google/uuid"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type dedupKey struct {
  title      string
  difficulty types.Difficulty
}

// DeduplicateExercises collapses duplicate exercise rows gathered by
// walking Section -> Exercise joins. The same logical exercise can be
// linked into several sections, so the raw list may repeat an id or
// carry two ids with the same (title, difficulty). First occurrence
// wins; output order is input order. Every read site (chapter view,
// subject view, rollups, activity reports) must go through this one
// function so counts agree everywhere.
func DeduplicateExercises(in []*types.Exercise) []*types.Exercise {
  out := make([]*types.Exercise, 0, len(in))
  seenIDs := make(map[uuid.UUID]struct{}, len(in))
  seenKeys := make(map[dedupKey]uuid.UUID, len(in))

  for _, ex := range in {
    if ex == nil {
      continue
    }
    if _, ok := seenIDs[ex.ID]; ok {
      continue
    }
    key := dedupKey{title: strings.TrimSpace(ex.Title), difficulty: ex.Difficulty}
    if _, ok := seenKeys[key]; ok {
      continue
    }
    seenIDs[ex.ID] = struct{}{}
    seenKeys[key] = ex.ID
    out = append(out, ex)
  }
  return out
}

// FilterByDifficulty keeps exercises of one tier, preserving order.
func FilterByDifficulty(in []*types.Exercise, difficulty types.Difficulty) []*types.Exercise {
  out := make([]*types.Exercise, 0, len(in))
  for _, ex := range in {
    if ex != nil && ex.Difficulty == difficulty {
      out = append(out, ex)
    }
  }
  return out
}
