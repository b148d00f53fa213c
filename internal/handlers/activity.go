package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type ActivityHandler struct {
  log             *logger.Logger
  activityService services.ActivityService
}

func NewActivityHandler(baseLog *logger.Logger, activityService services.ActivityService) *ActivityHandler {
  return &ActivityHandler{
    log:             baseLog.With("handler", "ActivityHandler"),
    activityService: activityService,
  }
}

// parseDateQuery reads ?date=2006-01-02, defaulting to now.
func parseDateQuery(c *gin.Context) (time.Time, bool) {
  raw := c.Query("date")
  if raw == "" {
    return time.Now(), true
  }
  date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
  if err != nil {
    RespondError(c, apierr.Validation("date must be formatted as YYYY-MM-DD"))
    return time.Time{}, false
  }
  return date, true
}

func (h *ActivityHandler) GetDaily(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  date, ok := parseDateQuery(c)
  if !ok {
    return
  }

  report, err := h.activityService.GetDailyActivity(c.Request.Context(), userID, date)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, report)
}

func (h *ActivityHandler) GetWeekly(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  date, ok := parseDateQuery(c)
  if !ok {
    return
  }

  report, err := h.activityService.GetWeeklyActivity(c.Request.Context(), userID, date)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, report)
}
