package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/requestdata"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type UserHandler struct {
  log         *logger.Logger
  userService services.UserService
}

func NewUserHandler(baseLog *logger.Logger, userService services.UserService) *UserHandler {
  return &UserHandler{
    log:         baseLog.With("handler", "UserHandler"),
    userService: userService,
  }
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, apierr.Unauthorized("authentication required"))
    return uuid.Nil, false
  }
  return rd.UserID, true
}

func (h *UserHandler) Me(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  user, err := h.userService.GetProfile(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
  FirstName *string    `json:"first_name"`
  LastName  *string    `json:"last_name"`
  Level     *int       `json:"level"`
  GradeID   *uuid.UUID `json:"grade_id"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }

  var req updateProfileRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid profile payload: %v", err))
    return
  }

  user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
    FirstName: req.FirstName,
    LastName:  req.LastName,
    Level:     req.Level,
    GradeID:   req.GradeID,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"user": user})
}
