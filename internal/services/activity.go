package services

import (
  "context"
  "sort"
  "time"

  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/types"
  "gorm.io/gorm"
)

// ReportCache holds finished window reports. Only closed windows are
// cached; an open window keeps changing until it ends.
type ReportCache interface {
  Get(ctx context.Context, userID uuid.UUID, start, end time.Time) (*types.ActivityWindowReport, bool)
  Set(ctx context.Context, report *types.ActivityWindowReport, ttl time.Duration)
}

type ActivityService interface {
  GetDailyActivity(ctx context.Context, userID uuid.UUID, date time.Time) (*types.ActivityWindowReport, error)
  GetWeeklyActivity(ctx context.Context, userID uuid.UUID, anchor time.Time) (*types.ActivityWindowReport, error)
  GetWindowActivity(ctx context.Context, userID uuid.UUID, start, end time.Time) (*types.ActivityWindowReport, error)
}

type activityService struct {
  db           *gorm.DB
  log          *logger.Logger
  exerciseRepo repos.ExerciseRepo
  attemptRepo  repos.ExerciseAttemptRepo
  messageRepo  repos.ChatMessageRepo
  cache        ReportCache
}

func NewActivityService(
  db *gorm.DB,
  log *logger.Logger,
  exerciseRepo repos.ExerciseRepo,
  attemptRepo repos.ExerciseAttemptRepo,
  messageRepo repos.ChatMessageRepo,
  cache ReportCache,
) ActivityService {
  serviceLog := log.With("service", "ActivityService")
  return &activityService{
    db:           db,
    log:          serviceLog,
    exerciseRepo: exerciseRepo,
    attemptRepo:  attemptRepo,
    messageRepo:  messageRepo,
    cache:        cache,
  }
}

func (s *activityService) GetDailyActivity(ctx context.Context, userID uuid.UUID, date time.Time) (*types.ActivityWindowReport, error) {
  start, end := DayWindow(date)
  return s.GetWindowActivity(ctx, userID, start, end)
}

func (s *activityService) GetWeeklyActivity(ctx context.Context, userID uuid.UUID, anchor time.Time) (*types.ActivityWindowReport, error) {
  start, end := WeekWindow(anchor)
  return s.GetWindowActivity(ctx, userID, start, end)
}

func (s *activityService) GetWindowActivity(ctx context.Context, userID uuid.UUID, start, end time.Time) (*types.ActivityWindowReport, error) {
  if userID == uuid.Nil {
    return nil, apierr.Validation("user id is required")
  }
  if !start.Before(end) {
    return nil, apierr.Validation("window start must be before window end")
  }

  closed := end.Before(time.Now())
  if closed && s.cache != nil {
    if cached, ok := s.cache.Get(ctx, userID, start, end); ok {
      return cached, nil
    }
  }

  attempts, err := s.attemptRepo.GetByUserInWindow(ctx, nil, userID, start, end)
  if err != nil {
    return nil, apierr.Persistence(err)
  }

  ids := make([]uuid.UUID, 0, len(attempts))
  seen := make(map[uuid.UUID]struct{}, len(attempts))
  for _, att := range attempts {
    if _, ok := seen[att.ExerciseID]; ok {
      continue
    }
    seen[att.ExerciseID] = struct{}{}
    ids = append(ids, att.ExerciseID)
  }

  exercises, err := s.exerciseRepo.GetByIDsWithHierarchy(ctx, nil, ids)
  if err != nil {
    return nil, apierr.Persistence(err)
  }

  aiCount, err := s.messageRepo.CountUserMessagesInWindow(ctx, nil, userID, start, end)
  if err != nil {
    return nil, apierr.Persistence(err)
  }

  report := buildActivityReport(userID, start, end, attempts, exercises, aiCount)

  if closed && s.cache != nil {
    s.cache.Set(ctx, report, 24*time.Hour)
  }
  return report, nil
}

// DayWindow is the calendar day containing date, [midnight, next
// midnight) in date's location.
func DayWindow(date time.Time) (time.Time, time.Time) {
  start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
  return start, start.AddDate(0, 0, 1)
}

// WeekWindow is the Monday-through-Sunday week containing anchor,
// [Monday midnight, next Monday midnight) in anchor's location.
func WeekWindow(anchor time.Time) (time.Time, time.Time) {
  day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
  offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
  start := day.AddDate(0, 0, -offset)
  return start, start.AddDate(0, 0, 7)
}

// buildActivityReport folds window attempts into the subject -> chapter
// -> exercise tree. Counts are by distinct question id: answering the
// same question five times counts once, and a question id is only
// counted at the level it rolls up to once, no matter how many
// duplicate exercise rows referenced it.
func buildActivityReport(userID uuid.UUID, start, end time.Time, attempts []*types.ExerciseAttempt, exercises []*types.Exercise, aiCount int64) *types.ActivityWindowReport {
  canonical := DeduplicateExercises(exercises)
  byID := make(map[uuid.UUID]*types.Exercise, len(canonical))
  for _, ex := range canonical {
    byID[ex.ID] = ex
  }

  // Distinct question ids answered, unioned per canonical exercise id.
  perExercise := make(map[uuid.UUID]map[uuid.UUID]struct{})
  for _, att := range attempts {
    ex, ok := byID[att.ExerciseID]
    if !ok {
      // Attempt against an exercise row that collapsed away in
      // deduplication (or was removed); it cannot be attributed.
      continue
    }
    answerMap, err := att.AnswerMap()
    if err != nil {
      continue
    }
    qids := perExercise[ex.ID]
    if qids == nil {
      qids = make(map[uuid.UUID]struct{}, len(answerMap))
      perExercise[ex.ID] = qids
    }
    for qid := range answerMap {
      qids[qid] = struct{}{}
    }
  }

  type chapterBucket struct {
    chapter   *types.Chapter
    questions map[uuid.UUID]struct{}
    exercises []types.ExerciseActivity
  }
  type subjectBucket struct {
    subject   *types.Subject
    questions map[uuid.UUID]struct{}
    chapters  map[uuid.UUID]*chapterBucket
  }
  subjects := make(map[uuid.UUID]*subjectBucket)

  for _, ex := range canonical {
    qids, ok := perExercise[ex.ID]
    if !ok || len(qids) == 0 {
      continue
    }
    if ex.Section == nil || ex.Section.Chapter == nil || ex.Section.Chapter.Subject == nil {
      continue
    }
    chapter := ex.Section.Chapter
    subject := chapter.Subject

    sb := subjects[subject.ID]
    if sb == nil {
      sb = &subjectBucket{
        subject:   subject,
        questions: make(map[uuid.UUID]struct{}),
        chapters:  make(map[uuid.UUID]*chapterBucket),
      }
      subjects[subject.ID] = sb
    }
    cb := sb.chapters[chapter.ID]
    if cb == nil {
      cb = &chapterBucket{
        chapter:   chapter,
        questions: make(map[uuid.UUID]struct{}),
      }
      sb.chapters[chapter.ID] = cb
    }

    for qid := range qids {
      sb.questions[qid] = struct{}{}
      cb.questions[qid] = struct{}{}
    }
    cb.exercises = append(cb.exercises, types.ExerciseActivity{
      ExerciseID:            ex.ID,
      Title:                 ex.Title,
      DistinctQuestionCount: len(qids),
    })
  }

  report := &types.ActivityWindowReport{
    UserID:         userID,
    WindowStart:    start,
    WindowEnd:      end,
    Subjects:       make([]types.SubjectActivity, 0, len(subjects)),
    AIMessageCount: aiCount,
  }
  for _, sb := range subjects {
    entry := types.SubjectActivity{
      SubjectID:             sb.subject.ID,
      SubjectName:           sb.subject.Name,
      DistinctQuestionCount: len(sb.questions),
      Chapters:              make([]types.ChapterActivity, 0, len(sb.chapters)),
    }
    for _, cb := range sb.chapters {
      sort.Slice(cb.exercises, func(i, j int) bool {
        return cb.exercises[i].Title < cb.exercises[j].Title
      })
      entry.Chapters = append(entry.Chapters, types.ChapterActivity{
        ChapterID:             cb.chapter.ID,
        ChapterName:           cb.chapter.Name,
        DistinctQuestionCount: len(cb.questions),
        Exercises:             cb.exercises,
      })
    }
    sort.Slice(entry.Chapters, func(i, j int) bool {
      return entry.Chapters[i].ChapterName < entry.Chapters[j].ChapterName
    })
    report.Subjects = append(report.Subjects, entry)
  }
  sort.Slice(report.Subjects, func(i, j int) bool {
    return report.Subjects[i].SubjectName < report.Subjects[j].SubjectName
  })
  return report
}
