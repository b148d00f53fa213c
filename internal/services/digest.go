package services

import (
  "bytes"
  "context"
  "errors"
  "fmt"
  "html/template"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/types"
)

// Mailer delivers one rendered email.
type Mailer interface {
  Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

type DigestService interface {
  SendWeeklyDigest(ctx context.Context, userID uuid.UUID, anchor time.Time) error
}

type digestService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
  activity ActivityService
  mailer   Mailer
}

func NewDigestService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, activity ActivityService, mailer Mailer) DigestService {
  serviceLog := log.With("service", "DigestService")
  return &digestService{
    db:       db,
    log:      serviceLog,
    userRepo: userRepo,
    activity: activity,
    mailer:   mailer,
  }
}

var digestTemplate = template.Must(template.New("weekly_digest").Parse(`
<h2>Your week on ClassBridge</h2>
<p>{{.Start}} &ndash; {{.End}}</p>
{{if .Subjects}}
<ul>
{{range .Subjects}}
  <li><strong>{{.SubjectName}}</strong>: {{.DistinctQuestionCount}} questions worked on
    <ul>
    {{range .Chapters}}
      <li>{{.ChapterName}}: {{.DistinctQuestionCount}} questions</li>
    {{end}}
    </ul>
  </li>
{{end}}
</ul>
{{else}}
<p>No exercises this week. A few minutes a day keeps things fresh!</p>
{{end}}
{{if .AIMessageCount}}<p>Tutor chat messages sent: {{.AIMessageCount}}</p>{{end}}
`))

// SendWeeklyDigest renders the week's activity report for the learner
// and mails it. The week is the Monday-anchored window containing
// anchor.
func (s *digestService) SendWeeklyDigest(ctx context.Context, userID uuid.UUID, anchor time.Time) error {
  user, err := s.userRepo.GetByID(ctx, nil, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return apierr.NotFound("user %s not found", userID)
    }
    return apierr.Persistence(err)
  }

  report, err := s.activity.GetWeeklyActivity(ctx, userID, anchor)
  if err != nil {
    return err
  }

  body, err := renderDigest(report)
  if err != nil {
    return apierr.Persistence(err)
  }

  subject := fmt.Sprintf("Your ClassBridge week, %s", report.WindowStart.Format("Jan 2"))
  name := user.FirstName
  if name == "" {
    name = user.Email
  }
  if err := s.mailer.Send(ctx, user.Email, name, subject, body); err != nil {
    s.log.Error("Weekly digest delivery failed", "user_id", userID, "error", err)
    return apierr.New(502, "upstream_error", err)
  }
  s.log.Info("Weekly digest sent", "user_id", userID)
  return nil
}

func renderDigest(report *types.ActivityWindowReport) (string, error) {
  data := struct {
    Start          string
    End            string
    Subjects       []types.SubjectActivity
    AIMessageCount int64
  }{
    Start:          report.WindowStart.Format("Jan 2, 2006"),
    End:            report.WindowEnd.AddDate(0, 0, -1).Format("Jan 2, 2006"),
    Subjects:       report.Subjects,
    AIMessageCount: report.AIMessageCount,
  }
  var buf bytes.Buffer
  if err := digestTemplate.Execute(&buf, data); err != nil {
    return "", err
  }
  return buf.String(), nil
}
