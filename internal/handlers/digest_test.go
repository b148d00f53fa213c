package handlers

import (
  "context"
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/requestdata"
)

type recordingDigestService struct {
  calls   int
  anchors []time.Time
}

func (s *recordingDigestService) SendWeeklyDigest(ctx context.Context, userID uuid.UUID, anchor time.Time) error {
  s.calls++
  s.anchors = append(s.anchors, anchor)
  return nil
}

func digestRequest(t *testing.T, rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
  t.Helper()
  gin.SetMode(gin.TestMode)
  w := httptest.NewRecorder()
  c, _ := gin.CreateTestContext(w)

  req := httptest.NewRequest(http.MethodPost, "/activity/digest"+rawQuery, nil)
  rd := &requestdata.RequestData{UserID: uuid.New(), Level: 3}
  c.Request = req.WithContext(requestdata.WithRequestData(req.Context(), rd))
  return c, w
}

func TestSendWeekly(t *testing.T) {
  log, err := logger.New("")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }

  t.Run("malformed date is rejected", func(t *testing.T) {
    svc := &recordingDigestService{}
    h := NewDigestHandler(log, svc)

    c, w := digestRequest(t, "?date=last-tuesday")
    h.SendWeekly(c)

    if w.Code != http.StatusBadRequest {
      t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
    }
    if svc.calls != 0 {
      t.Fatal("digest service must not run for a malformed date")
    }
  })

  t.Run("valid date anchors the window", func(t *testing.T) {
    svc := &recordingDigestService{}
    h := NewDigestHandler(log, svc)

    c, w := digestRequest(t, "?date=2026-03-11")
    h.SendWeekly(c)

    if w.Code != http.StatusOK {
      t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
    }
    if svc.calls != 1 {
      t.Fatalf("digest service ran %d times, want 1", svc.calls)
    }
    want := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local)
    if !svc.anchors[0].Equal(want) {
      t.Fatalf("anchor = %v, want %v", svc.anchors[0], want)
    }
  })
}
