package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type CurriculumHandler struct {
  log               *logger.Logger
  curriculumService services.CurriculumService
}

func NewCurriculumHandler(baseLog *logger.Logger, curriculumService services.CurriculumService) *CurriculumHandler {
  return &CurriculumHandler{
    log:               baseLog.With("handler", "CurriculumHandler"),
    curriculumService: curriculumService,
  }
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, apierr.Validation("%s must be a valid uuid", name))
    return uuid.Nil, false
  }
  return id, true
}

func (h *CurriculumHandler) ListGrades(c *gin.Context) {
  grades, err := h.curriculumService.ListGrades(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"grades": grades})
}

func (h *CurriculumHandler) ListSubjects(c *gin.Context) {
  gradeID, ok := parseUUIDParam(c, "gradeID")
  if !ok {
    return
  }
  subjects, err := h.curriculumService.ListSubjects(c.Request.Context(), gradeID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"subjects": subjects})
}

func (h *CurriculumHandler) GetSubject(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  subjectID, ok := parseUUIDParam(c, "subjectID")
  if !ok {
    return
  }
  overview, err := h.curriculumService.GetSubjectOverview(c.Request.Context(), userID, subjectID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, overview)
}
