package services

import (
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/types"
)

func TestDayWindow(t *testing.T) {
  loc := time.FixedZone("test", 2*3600)
  date := time.Date(2026, time.March, 14, 17, 45, 3, 0, loc)

  start, end := DayWindow(date)
  if !start.Equal(time.Date(2026, time.March, 14, 0, 0, 0, 0, loc)) {
    t.Fatalf("start = %v, want midnight of the same day", start)
  }
  if !end.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, loc)) {
    t.Fatalf("end = %v, want next midnight", end)
  }

  // Half-open window: the end instant belongs to the next day.
  if !start.Before(end) {
    t.Fatal("start must precede end")
  }
  inside := end.Add(-time.Second)
  if inside.Before(start) || !inside.Before(end) {
    t.Fatal("last second of the day must fall inside the window")
  }
}

func TestWeekWindow(t *testing.T) {
  tests := []struct {
    name      string
    anchor    time.Time
    wantStart time.Time
  }{
    {
      name:      "wednesday anchors to its monday",
      anchor:    time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC),
      wantStart: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
    },
    {
      name:      "monday anchors to itself",
      anchor:    time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
      wantStart: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
    },
    {
      name:      "sunday anchors to the previous monday",
      anchor:    time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC),
      wantStart: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
    },
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      start, end := WeekWindow(tt.anchor)
      if !start.Equal(tt.wantStart) {
        t.Fatalf("start = %v, want %v", start, tt.wantStart)
      }
      if !end.Equal(tt.wantStart.AddDate(0, 0, 7)) {
        t.Fatalf("end = %v, want start + 7 days", end)
      }
    })
  }
}

func hierarchyExercise(subject *types.Subject, chapter *types.Chapter, id uuid.UUID, title string, questionIDs ...uuid.UUID) *types.Exercise {
  chapter.Subject = subject
  ex := &types.Exercise{
    ID:         id,
    Title:      title,
    Difficulty: types.DifficultyEasy,
    Section:    &types.Section{ID: uuid.New(), ChapterID: chapter.ID, Chapter: chapter},
  }
  for _, qid := range questionIDs {
    ex.Questions = append(ex.Questions, &types.Question{ID: qid, ExerciseID: id})
  }
  return ex
}

func windowAttempt(t *testing.T, exerciseID uuid.UUID, questionIDs ...uuid.UUID) *types.ExerciseAttempt {
  t.Helper()
  answers := map[uuid.UUID]types.AttemptAnswer{}
  for _, qid := range questionIDs {
    answers[qid] = types.AttemptAnswer{Answer: "x"}
  }
  attempt := &types.ExerciseAttempt{UserID: uuid.New(), ExerciseID: exerciseID}
  if err := attempt.SetAnswerMap(answers); err != nil {
    t.Fatalf("SetAnswerMap failed: %v", err)
  }
  return attempt
}

func TestBuildActivityReport(t *testing.T) {
  userID := uuid.New()
  start := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
  end := start.AddDate(0, 0, 7)

  subject := &types.Subject{ID: uuid.New(), Name: "Math"}
  chapter := &types.Chapter{ID: uuid.New(), SubjectID: subject.ID, Name: "Fractions"}

  q1, q2, q3 := uuid.New(), uuid.New(), uuid.New()
  exA := hierarchyExercise(subject, chapter, uuid.New(), "Adding fractions", q1, q2)
  exB := hierarchyExercise(subject, chapter, uuid.New(), "Comparing fractions", q3)

  t.Run("repetition counts once", func(t *testing.T) {
    attempts := []*types.ExerciseAttempt{
      windowAttempt(t, exA.ID, q1, q2),
      windowAttempt(t, exA.ID, q1), // same question again
    }
    report := buildActivityReport(userID, start, end, attempts, []*types.Exercise{exA, exB}, 0)

    if len(report.Subjects) != 1 {
      t.Fatalf("got %d subjects, want 1", len(report.Subjects))
    }
    math := report.Subjects[0]
    if math.DistinctQuestionCount != 2 {
      t.Fatalf("subject distinct count = %d, want 2", math.DistinctQuestionCount)
    }
    if len(math.Chapters) != 1 || math.Chapters[0].DistinctQuestionCount != 2 {
      t.Fatalf("chapter rollup = %+v, want 2 distinct questions", math.Chapters)
    }
    if len(math.Chapters[0].Exercises) != 1 {
      t.Fatalf("got %d exercises with activity, want 1", len(math.Chapters[0].Exercises))
    }
  })

  t.Run("attempt against collapsed duplicate row is skipped", func(t *testing.T) {
    duplicate := hierarchyExercise(subject, chapter, uuid.New(), "Adding fractions", q1, q2)
    attempts := []*types.ExerciseAttempt{
      windowAttempt(t, duplicate.ID, q1, q2),
    }
    // exA comes first so it is the canonical row for this title.
    report := buildActivityReport(userID, start, end, attempts, []*types.Exercise{exA, duplicate}, 0)
    if len(report.Subjects) != 0 {
      t.Fatalf("attempt on a non-canonical row must not be attributed, got %+v", report.Subjects)
    }
  })

  t.Run("activity lands on the first row in curriculum order", func(t *testing.T) {
    duplicate := hierarchyExercise(subject, chapter, uuid.New(), "Adding fractions", q1, q2)
    attempts := []*types.ExerciseAttempt{
      windowAttempt(t, exA.ID, q1, q2),
    }
    report := buildActivityReport(userID, start, end, attempts, []*types.Exercise{exA, duplicate}, 0)

    entries := report.Subjects[0].Chapters[0].Exercises
    if len(entries) != 1 {
      t.Fatalf("got %d exercise entries, want 1", len(entries))
    }
    if entries[0].ExerciseID != exA.ID {
      t.Fatalf("attributed to %s, want the first duplicate row %s", entries[0].ExerciseID, exA.ID)
    }
    if entries[0].DistinctQuestionCount != 2 {
      t.Fatalf("distinct count = %d, want 2", entries[0].DistinctQuestionCount)
    }
  })

  t.Run("counts roll up across exercises", func(t *testing.T) {
    attempts := []*types.ExerciseAttempt{
      windowAttempt(t, exA.ID, q1),
      windowAttempt(t, exB.ID, q3),
    }
    report := buildActivityReport(userID, start, end, attempts, []*types.Exercise{exA, exB}, 5)

    if report.AIMessageCount != 5 {
      t.Fatalf("AIMessageCount = %d, want 5", report.AIMessageCount)
    }
    math := report.Subjects[0]
    if math.DistinctQuestionCount != 2 {
      t.Fatalf("subject distinct count = %d, want 2", math.DistinctQuestionCount)
    }
    if len(math.Chapters[0].Exercises) != 2 {
      t.Fatalf("got %d exercise entries, want 2", len(math.Chapters[0].Exercises))
    }
  })

  t.Run("empty window produces empty report", func(t *testing.T) {
    report := buildActivityReport(userID, start, end, nil, nil, 0)
    if len(report.Subjects) != 0 || report.AIMessageCount != 0 {
      t.Fatalf("empty window report = %+v", report)
    }
    if !report.WindowStart.Equal(start) || !report.WindowEnd.Equal(end) {
      t.Fatal("report must echo the window bounds")
    }
  })
}
