package main

import (
  "context"
  "log"

  "github.com/classbridge/classbridge-backend/internal/app"
)

func main() {
  ctx := context.Background()

  application, err := app.New(ctx)
  if err != nil {
    log.Fatalf("startup failed: %v", err)
  }
  if err := application.Run(); err != nil {
    application.Log.Fatal("Server exited", "error", err)
  }
}
