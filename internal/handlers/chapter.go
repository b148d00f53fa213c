package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type ChapterHandler struct {
  log             *logger.Logger
  progressService services.ProgressService
}

func NewChapterHandler(baseLog *logger.Logger, progressService services.ProgressService) *ChapterHandler {
  return &ChapterHandler{
    log:             baseLog.With("handler", "ChapterHandler"),
    progressService: progressService,
  }
}

func (h *ChapterHandler) GetView(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  chapterID, ok := parseUUIDParam(c, "chapterID")
  if !ok {
    return
  }

  view, err := h.progressService.GetChapterView(c.Request.Context(), userID, chapterID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, view)
}

type submitChapterRequest struct {
  Exercises map[uuid.UUID]map[uuid.UUID]string `json:"exercises" binding:"required"`
}

func (h *ChapterHandler) Submit(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  chapterID, ok := parseUUIDParam(c, "chapterID")
  if !ok {
    return
  }

  var req submitChapterRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid batch payload: %v", err))
    return
  }

  result, err := h.progressService.SubmitChapter(c.Request.Context(), userID, chapterID, req.Exercises)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, result)
}
