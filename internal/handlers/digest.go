package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type DigestHandler struct {
  log           *logger.Logger
  digestService services.DigestService
}

func NewDigestHandler(baseLog *logger.Logger, digestService services.DigestService) *DigestHandler {
  return &DigestHandler{
    log:           baseLog.With("handler", "DigestHandler"),
    digestService: digestService,
  }
}

// SendWeekly mails the caller their digest for the week containing
// ?date= (default: last week, the most recent closed window).
func (h *DigestHandler) SendWeekly(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }

  anchor := time.Now().AddDate(0, 0, -7)
  if raw := c.Query("date"); raw != "" {
    parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
    if err != nil {
      RespondError(c, apierr.Validation("date must be formatted as YYYY-MM-DD"))
      return
    }
    anchor = parsed
  }

  if err := h.digestService.SendWeeklyDigest(c.Request.Context(), userID, anchor); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"status": "sent"})
}
