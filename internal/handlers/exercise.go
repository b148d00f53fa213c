package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

const maxEssayImageBytes = 10 << 20

type ExerciseHandler struct {
  log             *logger.Logger
  progressService services.ProgressService
  essayService    services.EssaySubmissionService
}

func NewExerciseHandler(baseLog *logger.Logger, progressService services.ProgressService, essayService services.EssaySubmissionService) *ExerciseHandler {
  return &ExerciseHandler{
    log:             baseLog.With("handler", "ExerciseHandler"),
    progressService: progressService,
    essayService:    essayService,
  }
}

type submitExerciseRequest struct {
  Answers map[uuid.UUID]string `json:"answers" binding:"required"`
}

func (h *ExerciseHandler) Submit(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  exerciseID, ok := parseUUIDParam(c, "exerciseID")
  if !ok {
    return
  }

  var req submitExerciseRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid submission payload: %v", err))
    return
  }

  result, err := h.progressService.SubmitExercise(c.Request.Context(), userID, exerciseID, req.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, result)
}

// SubmitEssayImage accepts a multipart upload of a photographed
// handwritten answer for one essay question.
func (h *ExerciseHandler) SubmitEssayImage(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  exerciseID, ok := parseUUIDParam(c, "exerciseID")
  if !ok {
    return
  }
  questionID, ok := parseUUIDParam(c, "questionID")
  if !ok {
    return
  }

  fileHeader, err := c.FormFile("image")
  if err != nil {
    RespondError(c, apierr.Validation("an image file is required"))
    return
  }
  if fileHeader.Size > maxEssayImageBytes {
    RespondError(c, apierr.Validation("image exceeds the 10MB limit"))
    return
  }

  file, err := fileHeader.Open()
  if err != nil {
    RespondError(c, apierr.Validation("image could not be read"))
    return
  }
  defer file.Close()

  result, err := h.essayService.SubmitImage(c.Request.Context(), userID, exerciseID, questionID, file)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, result)
}
