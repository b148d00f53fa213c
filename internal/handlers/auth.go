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

type AuthHandler struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthHandler(baseLog *logger.Logger, authService services.AuthService) *AuthHandler {
  return &AuthHandler{
    log:         baseLog.With("handler", "AuthHandler"),
    authService: authService,
  }
}

type registerRequest struct {
  Email     string     `json:"email" binding:"required,email"`
  Password  string     `json:"password" binding:"required,min=8"`
  FirstName string     `json:"first_name"`
  LastName  string     `json:"last_name"`
  Level     int        `json:"level" binding:"required"`
  GradeID   *uuid.UUID `json:"grade_id"`
}

func (h *AuthHandler) Register(c *gin.Context) {
  var req registerRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid register payload: %v", err))
    return
  }

  user, pair, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
    Email:     req.Email,
    Password:  req.Password,
    FirstName: req.FirstName,
    LastName:  req.LastName,
    Level:     req.Level,
    GradeID:   req.GradeID,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusCreated, gin.H{"user": user, "tokens": pair})
}

type loginRequest struct {
  Email    string `json:"email" binding:"required"`
  Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid login payload: %v", err))
    return
  }

  user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"user": user, "tokens": pair})
}

type refreshRequest struct {
  RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
  var req refreshRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid refresh payload: %v", err))
    return
  }

  pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"tokens": pair})
}

func (h *AuthHandler) Logout(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apierr.Unauthorized("authentication required"))
    return
  }
  if err := h.authService.Logout(c.Request.Context(), rd.UserID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"status": "logged_out"})
}
