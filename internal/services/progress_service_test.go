package services

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "sync"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/types"
)

// progressFixture is a shared in-memory store behind the repo fakes.
// One user, one chapter, one section.
type progressFixture struct {
  mu sync.Mutex

  user      *types.User
  chapter   *types.Chapter
  exercises map[uuid.UUID]*types.Exercise
  ordered   []*types.Exercise

  attempts        map[uuid.UUID]*types.ExerciseAttempt // keyed by exercise id
  sectionProgress map[uuid.UUID]*types.SectionProgress
  chapterProgress map[uuid.UUID]*types.ChapterProgress

  failUpsertFor map[uuid.UUID]bool
}

func newProgressFixture(exerciseCount int, difficulty types.Difficulty, exerciseType types.ExerciseType) *progressFixture {
  f := &progressFixture{
    user:            &types.User{ID: uuid.New(), Level: 3},
    chapter:         &types.Chapter{ID: uuid.New(), Name: "Fractions"},
    exercises:       map[uuid.UUID]*types.Exercise{},
    attempts:        map[uuid.UUID]*types.ExerciseAttempt{},
    sectionProgress: map[uuid.UUID]*types.SectionProgress{},
    chapterProgress: map[uuid.UUID]*types.ChapterProgress{},
    failUpsertFor:   map[uuid.UUID]bool{},
  }
  section := &types.Section{ID: uuid.New(), ChapterID: f.chapter.ID}
  for i := 0; i < exerciseCount; i++ {
    ex := &types.Exercise{
      ID:         uuid.New(),
      SectionID:  section.ID,
      Section:    section,
      Title:      fmt.Sprintf("Exercise %d", i+1),
      Difficulty: difficulty,
      Type:       exerciseType,
      Order:      i,
    }
    ex.Questions = []*types.Question{{ID: uuid.New(), ExerciseID: ex.ID, Answer: "correct", Points: 1}}
    f.exercises[ex.ID] = ex
    f.ordered = append(f.ordered, ex)
  }
  return f
}

func (f *progressFixture) service(t *testing.T) ProgressService {
  t.Helper()
  log, err := logger.New("")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }
  return NewProgressService(
    nil, log,
    fakeUserRepo{f}, fakeExerciseRepo{f}, fakeSectionRepo{f}, fakeChapterRepo{f},
    fakeAttemptRepo{f}, fakeSectionProgressRepo{f}, fakeChapterProgressRepo{f},
  )
}

func (f *progressFixture) correctAnswers(ex *types.Exercise) map[uuid.UUID]string {
  answers := map[uuid.UUID]string{}
  for _, q := range ex.Questions {
    answers[q.ID] = "correct"
  }
  return answers
}

func (f *progressFixture) wrongAnswers(ex *types.Exercise) map[uuid.UUID]string {
  answers := map[uuid.UUID]string{}
  for _, q := range ex.Questions {
    answers[q.ID] = "wrong"
  }
  return answers
}

type fakeUserRepo struct{ f *progressFixture }

func (r fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) error { return nil }
func (r fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
  if r.f.user.ID == id {
    return r.f.user, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *types.User) error { return nil }

type fakeExerciseRepo struct{ f *progressFixture }

func (r fakeExerciseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exercise, error) {
  if ex, ok := r.f.exercises[id]; ok {
    return ex, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r fakeExerciseRepo) GetByIDsWithHierarchy(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exercise, error) {
  return nil, nil
}
func (r fakeExerciseRepo) ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Exercise, error) {
  if chapterID != r.f.chapter.ID {
    return nil, nil
  }
  return r.f.ordered, nil
}
func (r fakeExerciseRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Exercise, error) {
  return nil, nil
}

type fakeSectionRepo struct{ f *progressFixture }

func (r fakeSectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Section, error) {
  return nil, gorm.ErrRecordNotFound
}
func (r fakeSectionRepo) ListByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Section, error) {
  return nil, nil
}
func (r fakeSectionRepo) CountExercisesBySectionID(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (int64, error) {
  var count int64
  for _, ex := range r.f.exercises {
    if ex.SectionID == sectionID {
      count++
    }
  }
  return count, nil
}

type fakeChapterRepo struct{ f *progressFixture }

func (r fakeChapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  if r.f.chapter.ID == id {
    return r.f.chapter, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r fakeChapterRepo) GetByIDWithSubject(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chapter, error) {
  return r.GetByID(ctx, tx, id)
}
func (r fakeChapterRepo) ListBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Chapter, error) {
  return nil, nil
}

type fakeAttemptRepo struct{ f *progressFixture }

func (r fakeAttemptRepo) GetByUserAndExerciseID(ctx context.Context, tx *gorm.DB, userID, exerciseID uuid.UUID) ([]*types.ExerciseAttempt, error) {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if attempt, ok := r.f.attempts[exerciseID]; ok {
    return []*types.ExerciseAttempt{attempt}, nil
  }
  return nil, nil
}
func (r fakeAttemptRepo) GetByUserAndExerciseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exerciseIDs []uuid.UUID) ([]*types.ExerciseAttempt, error) {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  var out []*types.ExerciseAttempt
  for _, id := range exerciseIDs {
    if attempt, ok := r.f.attempts[id]; ok {
      out = append(out, attempt)
    }
  }
  return out, nil
}
func (r fakeAttemptRepo) GetByUserInWindow(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) ([]*types.ExerciseAttempt, error) {
  return nil, nil
}
func (r fakeAttemptRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ExerciseAttempt) error {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if r.f.failUpsertFor[row.ExerciseID] {
    return errors.New("connection reset by peer")
  }
  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }
  r.f.attempts[row.ExerciseID] = row
  return nil
}
func (r fakeAttemptRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  return nil
}

type fakeSectionProgressRepo struct{ f *progressFixture }

func (r fakeSectionProgressRepo) GetByUserAndSectionID(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) (*types.SectionProgress, error) {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if sp, ok := r.f.sectionProgress[sectionID]; ok {
    return sp, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r fakeSectionProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SectionProgress) error {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if _, ok := r.f.sectionProgress[row.SectionID]; !ok {
    r.f.sectionProgress[row.SectionID] = row
  }
  return nil
}
func (r fakeSectionProgressRepo) IncrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if sp, ok := r.f.sectionProgress[sectionID]; ok {
    sp.CompletedExercises++
  }
  return nil
}
func (r fakeSectionProgressRepo) DecrementCompleted(ctx context.Context, tx *gorm.DB, userID, sectionID uuid.UUID) error {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if sp, ok := r.f.sectionProgress[sectionID]; ok && sp.CompletedExercises > 0 {
    sp.CompletedExercises--
  }
  return nil
}

type fakeChapterProgressRepo struct{ f *progressFixture }

func (r fakeChapterProgressRepo) GetByUserAndChapterID(ctx context.Context, tx *gorm.DB, userID, chapterID uuid.UUID) (*types.ChapterProgress, error) {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  if cp, ok := r.f.chapterProgress[chapterID]; ok {
    return cp, nil
  }
  return nil, gorm.ErrRecordNotFound
}
func (r fakeChapterProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ChapterProgress) error {
  r.f.mu.Lock()
  defer r.f.mu.Unlock()
  r.f.chapterProgress[row.ChapterID] = row
  return nil
}

func (f *progressFixture) sectionCompleted() int {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, sp := range f.sectionProgress {
    return sp.CompletedExercises
  }
  return 0
}

func TestSubmitExerciseResubmission(t *testing.T) {
  t.Run("resubmitting a completed exercise does not double count", func(t *testing.T) {
    f := newProgressFixture(1, types.DifficultyEasy, types.ExerciseTypeMultipleChoice)
    svc := f.service(t)
    ctx := context.Background()
    ex := f.ordered[0]

    first, err := svc.SubmitExercise(ctx, f.user.ID, ex.ID, f.correctAnswers(ex))
    if err != nil {
      t.Fatalf("first submission failed: %v", err)
    }
    if !first.NewlyCompleted {
      t.Fatal("first all-correct submission must be newly completed")
    }

    second, err := svc.SubmitExercise(ctx, f.user.ID, ex.ID, f.correctAnswers(ex))
    if err != nil {
      t.Fatalf("second submission failed: %v", err)
    }
    if second.NewlyCompleted {
      t.Fatal("resubmission of a completed exercise must not be newly completed")
    }
    if got := f.sectionCompleted(); got != 1 {
      t.Fatalf("section completed count = %d, want 1 after two identical submissions", got)
    }
    if len(f.attempts) != 1 {
      t.Fatalf("got %d attempt rows, want 1 (upsert by natural key)", len(f.attempts))
    }
  })

  t.Run("completion flip-flop nets out to one", func(t *testing.T) {
    f := newProgressFixture(1, types.DifficultyEasy, types.ExerciseTypeMultipleChoice)
    svc := f.service(t)
    ctx := context.Background()
    ex := f.ordered[0]

    if _, err := svc.SubmitExercise(ctx, f.user.ID, ex.ID, f.correctAnswers(ex)); err != nil {
      t.Fatalf("submission failed: %v", err)
    }
    if _, err := svc.SubmitExercise(ctx, f.user.ID, ex.ID, f.wrongAnswers(ex)); err != nil {
      t.Fatalf("submission failed: %v", err)
    }
    if got := f.sectionCompleted(); got != 0 {
      t.Fatalf("section completed count = %d after losing completion, want 0", got)
    }

    res, err := svc.SubmitExercise(ctx, f.user.ID, ex.ID, f.correctAnswers(ex))
    if err != nil {
      t.Fatalf("submission failed: %v", err)
    }
    if !res.NewlyCompleted {
      t.Fatal("regaining completion must report newly completed")
    }
    if got := f.sectionCompleted(); got != 1 {
      t.Fatalf("section completed count = %d after regaining completion, want 1", got)
    }
  })

  t.Run("out of tier exercise is not found", func(t *testing.T) {
    f := newProgressFixture(1, types.DifficultyHard, types.ExerciseTypeMultipleChoice)
    svc := f.service(t)
    ex := f.ordered[0]

    _, err := svc.SubmitExercise(context.Background(), f.user.ID, ex.ID, f.correctAnswers(ex))
    if err == nil {
      t.Fatal("expected an error for an exercise outside the learner's tier")
    }
    if status, _ := apierr.StatusOf(err); status != http.StatusNotFound {
      t.Fatalf("status = %d, want %d", status, http.StatusNotFound)
    }
  })
}

func TestSubmitChapterIsolatesFailures(t *testing.T) {
  f := newProgressFixture(2, types.DifficultyEasy, types.ExerciseTypeMultipleChoice)
  svc := f.service(t)
  ctx := context.Background()
  good, bad := f.ordered[0], f.ordered[1]
  f.failUpsertFor[bad.ID] = true

  batch, err := svc.SubmitChapter(ctx, f.user.ID, f.chapter.ID, map[uuid.UUID]map[uuid.UUID]string{
    good.ID: f.correctAnswers(good),
    bad.ID:  f.correctAnswers(bad),
  })
  if err != nil {
    t.Fatalf("batch submission failed outright: %v", err)
  }

  if len(batch.Succeeded) != 1 || batch.Succeeded[0] != good.ID {
    t.Fatalf("Succeeded = %v, want exactly the healthy exercise", batch.Succeeded)
  }
  if _, ok := batch.Failed[bad.ID]; !ok {
    t.Fatalf("Failed = %v, want an entry for the failing exercise", batch.Failed)
  }
  if batch.SubmittedCount != 1 || batch.CompletedCount != 1 {
    t.Fatalf("counts = %d submitted %d completed, want 1 and 1", batch.SubmittedCount, batch.CompletedCount)
  }

  // The chapter recompute still ran over whatever committed.
  if batch.ChapterProgress == nil {
    t.Fatal("chapter progress must be recomputed even when one exercise fails")
  }
  if batch.ChapterProgress.CompletedExercises != 1 || batch.ChapterProgress.TotalExercises != 2 {
    t.Fatalf("rollup = %d/%d, want 1/2", batch.ChapterProgress.CompletedExercises, batch.ChapterProgress.TotalExercises)
  }
  if batch.ChapterProgress.Status != types.ProgressInProgress {
    t.Fatalf("Status = %q, want in_progress", batch.ChapterProgress.Status)
  }
}

func TestInjectEssayGradeOutsideTier(t *testing.T) {
  f := newProgressFixture(1, types.DifficultyHard, types.ExerciseTypeEssay)
  svc := f.service(t)
  ex := f.ordered[0]

  _, err := svc.InjectEssayGrade(context.Background(), f.user.ID, ex.ID, ex.Questions[0].ID, EssayGrade{Score: 100, IsCorrect: true})
  if err == nil {
    t.Fatal("expected an error for an essay outside the learner's tier")
  }
  if status, _ := apierr.StatusOf(err); status != http.StatusNotFound {
    t.Fatalf("status = %d, want %d", status, http.StatusNotFound)
  }
  if len(f.attempts) != 0 {
    t.Fatal("no attempt may be recorded for an out-of-tier essay")
  }
}
