package services

import (
  "context"
  "fmt"
  "io"
  "strings"

  vision "cloud.google.com/go/vision/apiv1"
  "google.golang.org/api/option"

  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/utils"
)

// EssayGrade is an externally produced verdict for one essay question,
// injected into the attempt by the progress engine.
type EssayGrade struct {
  Score     float64 `json:"score"`
  Feedback  string  `json:"feedback"`
  IsCorrect bool    `json:"is_correct"`
}

// EssayGrader turns a photographed handwritten answer into a grade
// against the question's answer key.
type EssayGrader interface {
  GradeImage(ctx context.Context, answerKey string, image io.Reader) (EssayGrade, error)
  Close() error
}

type visionEssayGrader struct {
  log    *logger.Logger
  client *vision.ImageAnnotatorClient
}

func NewVisionEssayGrader(ctx context.Context, log *logger.Logger) (EssayGrader, error) {
  graderLog := log.With("service", "VisionEssayGrader")

  var opts []option.ClientOption
  if credentials := utils.GetEnv("GCP_CREDENTIALS_FILE", "", graderLog); credentials != "" {
    opts = append(opts, option.WithCredentialsFile(credentials))
  }
  client, err := vision.NewImageAnnotatorClient(ctx, opts...)
  if err != nil {
    return nil, fmt.Errorf("create vision client: %w", err)
  }
  return &visionEssayGrader{log: graderLog, client: client}, nil
}

func (g *visionEssayGrader) Close() error {
  return g.client.Close()
}

// GradeImage runs document text detection on the image and scores the
// transcription against the answer key by token overlap. A full trimmed
// case-insensitive match is always correct regardless of overlap.
func (g *visionEssayGrader) GradeImage(ctx context.Context, answerKey string, image io.Reader) (EssayGrade, error) {
  img, err := vision.NewImageFromReader(image)
  if err != nil {
    return EssayGrade{}, fmt.Errorf("read image: %w", err)
  }

  annotation, err := g.client.DetectDocumentText(ctx, img, nil)
  if err != nil {
    return EssayGrade{}, fmt.Errorf("detect document text: %w", err)
  }
  if annotation == nil || strings.TrimSpace(annotation.GetText()) == "" {
    return EssayGrade{
      Score:    0,
      Feedback: "No readable text was found in the uploaded image.",
    }, nil
  }

  transcription := annotation.GetText()
  return scoreTranscription(transcription, answerKey), nil
}

func scoreTranscription(transcription, answerKey string) EssayGrade {
  if answersEqual(transcription, answerKey) {
    return EssayGrade{Score: 100, IsCorrect: true, Feedback: "The answer matches the expected solution."}
  }

  keyTokens := tokenize(answerKey)
  if len(keyTokens) == 0 {
    return EssayGrade{Feedback: "This question has no written answer key and needs manual review."}
  }
  seen := make(map[string]struct{})
  for _, token := range tokenize(transcription) {
    seen[token] = struct{}{}
  }

  matched := 0
  for _, token := range keyTokens {
    if _, ok := seen[token]; ok {
      matched++
    }
  }
  overlap := float64(matched) / float64(len(keyTokens))

  grade := EssayGrade{Score: overlap * 100}
  switch {
  case overlap >= 0.8:
    grade.IsCorrect = true
    grade.Feedback = "The answer covers the expected solution."
  case overlap >= 0.4:
    grade.Feedback = "The answer is partially correct; some expected points are missing."
  default:
    grade.Feedback = "The answer does not match the expected solution."
  }
  return grade
}

func tokenize(text string) []string {
  fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
    return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
  })
  out := fields[:0]
  for _, field := range fields {
    if len(field) > 1 {
      out = append(out, field)
    }
  }
  return out
}
