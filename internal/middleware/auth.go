package middleware

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, authService services.AuthService) *AuthMiddleware {
  return &AuthMiddleware{
    log:         baseLog.With("middleware", "AuthMiddleware"),
    authService: authService,
  }
}

// RequireAuth validates the bearer token and attaches the authenticated
// identity to the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    header := c.GetHeader("Authorization")
    if !strings.HasPrefix(header, "Bearer ") {
      status, code := apierr.StatusOf(apierr.Unauthorized("missing bearer token"))
      c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": "missing bearer token", "code": code}})
      return
    }
    tokenString := strings.TrimPrefix(header, "Bearer ")

    ctx, err := m.authService.SetContextFromToken(c.Request.Context(), tokenString)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "access token is invalid", "code": apierr.CodeUnauthorized}})
      return
    }

    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}
