package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, err error) {
  status, code := apierr.StatusOf(err)
  c.JSON(status, ErrorEnvelope{Error: APIError{Message: err.Error(), Code: code}})
}

func RespondOK(c *gin.Context, status int, payload interface{}) {
  c.JSON(status, payload)
}
