package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

func TestGroupByChapter(t *testing.T) {
  chapterA, chapterB := uuid.New(), uuid.New()
  a1 := exercise(uuid.New(), "Adding fractions", types.DifficultyEasy)
  a1.Section = &types.Section{ID: uuid.New(), ChapterID: chapterA}
  b1 := exercise(uuid.New(), "Long division", types.DifficultyEasy)
  b1.Section = &types.Section{ID: uuid.New(), ChapterID: chapterB}
  a2 := exercise(uuid.New(), "Comparing fractions", types.DifficultyEasy)
  a2.Section = &types.Section{ID: uuid.New(), ChapterID: chapterA}
  orphan := exercise(uuid.New(), "No section loaded", types.DifficultyEasy)
  orphan.Section = nil

  got := groupByChapter([]*types.Exercise{a1, b1, a2, orphan})

  if len(got) != 2 {
    t.Fatalf("got %d chapters, want 2", len(got))
  }
  if len(got[chapterA]) != 2 || got[chapterA][0].ID != a1.ID || got[chapterA][1].ID != a2.ID {
    t.Fatalf("chapter A bucket out of order: %v", got[chapterA])
  }
  if len(got[chapterB]) != 1 || got[chapterB][0].ID != b1.ID {
    t.Fatalf("chapter B bucket wrong: %v", got[chapterB])
  }
}

// overviewFixture backs GetSubjectOverview with in-memory repos.
type overviewFixture struct {
  user      *types.User
  subject   *types.Subject
  chapters  []*types.Chapter
  exercises []*types.Exercise
  progress  map[uuid.UUID]*types.ChapterProgress
}

type ovUserRepo struct{ f *overviewFixture }

func (r ovUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) error { return nil }
func (r ovUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
  if r.f.user.ID == id {
    return r.f.user, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r ovUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r ovUserRepo) Update(ctx context.Context, tx *gorm.DB, user *types.User) error { return nil }

type ovGradeRepo struct{ f *overviewFixture }

func (r ovGradeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Grade, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r ovGradeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Grade, error) {
  return nil, nil
}

type ovSubjectRepo struct{ f *overviewFixture }

func (r ovSubjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subject, error) {
  if r.f.subject.ID == id {
    return r.f.subject, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r ovSubjectRepo) ListByGradeID(ctx context.Context, tx *gorm.DB, gradeID uuid.UUID) ([]*types.Subject, error) {
  return nil, nil
}

type ovChapterRepo struct{ f *overviewFixture }

func (r ovChapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r ovChapterRepo) GetByIDWithSubject(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r ovChapterRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error) {
  return r.f.chapters, nil
}

type ovExerciseRepo struct{ f *overviewFixture }

func (r ovExerciseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exercise, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r ovExerciseRepo) GetByIDsWithHierarchy(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error) {
  return nil, nil
}
func (r ovExerciseRepo) ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Exercise, error) {
  return nil, nil
}
func (r ovExerciseRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Exercise, error) {
  return r.f.exercises, nil
}

type ovChapterProgressRepo struct{ f *overviewFixture }

func (r ovChapterProgressRepo) GetByUserAndChapterID(ctx context.Context, tx *gorm.DB, userID, chapterID uuid.UUID) (*types.ChapterProgress, error) {
  if cp, ok := r.f.progress[chapterID]; ok {
    return cp, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r ovChapterProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ChapterProgress) error {
  return nil
}

func TestGetSubjectOverview(t *testing.T) {
  log, err := logger.New("")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }

  f := &overviewFixture{
    user:     &types.User{ID: uuid.New(), Level: 2},
    subject:  &types.Subject{ID: uuid.New(), Name: "Mathematics"},
    progress: map[uuid.UUID]*types.ChapterProgress{},
  }
  chapterA := &types.Chapter{ID: uuid.New(), SubjectID: f.subject.ID, Name: "Fractions", Order: 0}
  chapterB := &types.Chapter{ID: uuid.New(), SubjectID: f.subject.ID, Name: "Decimals", Order: 1}
  chapterC := &types.Chapter{ID: uuid.New(), SubjectID: f.subject.ID, Name: "Geometry", Order: 2}
  f.chapters = []*types.Chapter{chapterA, chapterB, chapterC}

  inChapter := func(chapter *types.Chapter, title string, difficulty types.Difficulty) *types.Exercise {
    ex := exercise(uuid.New(), title, difficulty)
    ex.Section = &types.Section{ID: uuid.New(), ChapterID: chapter.ID}
    return ex
  }
  canonical := inChapter(chapterA, "Adding fractions", types.DifficultyEasy)
  duplicate := inChapter(chapterA, "Adding fractions", types.DifficultyEasy)
  otherTier := inChapter(chapterA, "Adding fractions with carry", types.DifficultyMedium)
  decimals := inChapter(chapterB, "Reading decimals", types.DifficultyEasy)
  f.exercises = []*types.Exercise{canonical, duplicate, otherTier, decimals}

  f.progress[chapterA.ID] = &types.ChapterProgress{UserID: f.user.ID, ChapterID: chapterA.ID, CompletedExercises: 1, TotalExercises: 1}

  svc := NewCurriculumService(
    nil, log,
    ovUserRepo{f}, ovGradeRepo{f}, ovSubjectRepo{f}, ovChapterRepo{f}, ovExerciseRepo{f}, ovChapterProgressRepo{f},
  )

  overview, err := svc.GetSubjectOverview(context.Background(), f.user.ID, f.subject.ID)
  if err != nil {
    t.Fatalf("GetSubjectOverview failed: %v", err)
  }
  if overview.Subject.ID != f.subject.ID {
    t.Fatalf("Subject = %s, want %s", overview.Subject.ID, f.subject.ID)
  }
  if len(overview.Chapters) != 3 {
    t.Fatalf("got %d chapters, want 3", len(overview.Chapters))
  }

  first := overview.Chapters[0]
  if len(first.Exercises) != 1 || first.Exercises[0].ID != canonical.ID {
    t.Fatalf("chapter %q exercises = %v, want only the canonical easy exercise", chapterA.Name, first.Exercises)
  }
  if first.Progress == nil || first.Progress.CompletedExercises != 1 {
    t.Fatalf("chapter %q progress missing or wrong: %+v", chapterA.Name, first.Progress)
  }

  second := overview.Chapters[1]
  if len(second.Exercises) != 1 || second.Exercises[0].ID != decimals.ID {
    t.Fatalf("chapter %q exercises = %v, want the decimals exercise", chapterB.Name, second.Exercises)
  }
  if second.Progress != nil {
    t.Fatalf("chapter %q has no rollup yet, got %+v", chapterB.Name, second.Progress)
  }

  third := overview.Chapters[2]
  if third.Exercises == nil || len(third.Exercises) != 0 {
    t.Fatalf("chapter %q must carry an empty exercise list, got %v", chapterC.Name, third.Exercises)
  }
}
