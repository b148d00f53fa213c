package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/services"
  "github.com/classbridge/classbridge-backend/internal/types"
)

type ChatHandler struct {
  log         *logger.Logger
  chatService services.ChatService
}

func NewChatHandler(baseLog *logger.Logger, chatService services.ChatService) *ChatHandler {
  return &ChatHandler{
    log:         baseLog.With("handler", "ChatHandler"),
    chatService: chatService,
  }
}

type startConversationRequest struct {
  Kind  types.ConversationKind `json:"kind"`
  Title string                 `json:"title"`
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }

  var req startConversationRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid conversation payload: %v", err))
    return
  }
  if req.Kind == "" {
    req.Kind = types.ConversationFree
  }

  conversation, err := h.chatService.StartConversation(c.Request.Context(), userID, req.Kind, req.Title)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusCreated, gin.H{"conversation": conversation})
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  conversations, err := h.chatService.ListConversations(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"conversations": conversations})
}

func (h *ChatHandler) GetTranscript(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  conversationID, ok := parseUUIDParam(c, "conversationID")
  if !ok {
    return
  }
  messages, err := h.chatService.GetTranscript(c.Request.Context(), userID, conversationID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
  Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  conversationID, ok := parseUUIDParam(c, "conversationID")
  if !ok {
    return
  }

  var req sendMessageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid message payload: %v", err))
    return
  }

  reply, err := h.chatService.SendMessage(c.Request.Context(), userID, conversationID, req.Content)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, http.StatusOK, gin.H{"message": reply})
}
