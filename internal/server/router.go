package server

import (
  "strings"
  "time"

  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/handlers"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/middleware"
  "github.com/classbridge/classbridge-backend/internal/utils"
)

type RouterDeps struct {
  Log         *logger.Logger
  Auth        *middleware.AuthMiddleware
  Healthcheck *handlers.HealthcheckHandler
  AuthHandler *handlers.AuthHandler
  User        *handlers.UserHandler
  Curriculum  *handlers.CurriculumHandler
  Chapter     *handlers.ChapterHandler
  Exercise    *handlers.ExerciseHandler
  Activity    *handlers.ActivityHandler
  Chat        *handlers.ChatHandler
  Digest      *handlers.DigestHandler
}

func NewRouter(deps *RouterDeps) *gin.Engine {
  router := gin.New()
  router.Use(gin.Recovery())

  origins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", deps.Log)
  router.Use(cors.New(cors.Config{
    AllowOrigins:     strings.Split(origins, ","),
    AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type"},
    AllowCredentials: true,
    MaxAge:           12 * time.Hour,
  }))

  router.GET("/healthz", deps.Healthcheck.Check)

  api := router.Group("/api/v1")

  public := api.Group("/auth")
  {
    public.POST("/register", deps.AuthHandler.Register)
    public.POST("/login", deps.AuthHandler.Login)
    public.POST("/refresh", deps.AuthHandler.Refresh)
  }

  private := api.Group("")
  private.Use(deps.Auth.RequireAuth())
  {
    private.POST("/auth/logout", deps.AuthHandler.Logout)

    private.GET("/me", deps.User.Me)
    private.PATCH("/me", deps.User.UpdateMe)

    private.GET("/grades", deps.Curriculum.ListGrades)
    private.GET("/grades/:gradeID/subjects", deps.Curriculum.ListSubjects)
    private.GET("/subjects/:subjectID", deps.Curriculum.GetSubject)

    private.GET("/chapters/:chapterID", deps.Chapter.GetView)
    private.POST("/chapters/:chapterID/submit", deps.Chapter.Submit)

    private.POST("/exercises/:exerciseID/submit", deps.Exercise.Submit)
    private.POST("/exercises/:exerciseID/questions/:questionID/image", deps.Exercise.SubmitEssayImage)

    private.GET("/activity/daily", deps.Activity.GetDaily)
    private.GET("/activity/weekly", deps.Activity.GetWeekly)
    private.POST("/activity/digest", deps.Digest.SendWeekly)

    private.POST("/chat/conversations", deps.Chat.StartConversation)
    private.GET("/chat/conversations", deps.Chat.ListConversations)
    private.GET("/chat/conversations/:conversationID/messages", deps.Chat.GetTranscript)
    private.POST("/chat/conversations/:conversationID/messages", deps.Chat.SendMessage)
  }

  return router
}
