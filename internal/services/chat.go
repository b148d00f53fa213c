package services

import (
  "context"
  "errors"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/classbridge/classbridge-backend/internal/apierr"
  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/repos"
  "github.com/classbridge/classbridge-backend/internal/types"
)

const chatHistoryLimit = 20

type ChatService interface {
  StartConversation(ctx context.Context, userID uuid.UUID, kind types.ConversationKind, title string) (*types.ChatConversation, error)
  ListConversations(ctx context.Context, userID uuid.UUID) ([]*types.ChatConversation, error)
  GetTranscript(ctx context.Context, userID, conversationID uuid.UUID) ([]*types.ChatMessage, error)
  SendMessage(ctx context.Context, userID, conversationID uuid.UUID, content string) (*types.ChatMessage, error)
}

type chatService struct {
  db               *gorm.DB
  log              *logger.Logger
  conversationRepo repos.ChatConversationRepo
  messageRepo      repos.ChatMessageRepo
  ai               AIClient
}

func NewChatService(db *gorm.DB, log *logger.Logger, conversationRepo repos.ChatConversationRepo, messageRepo repos.ChatMessageRepo, ai AIClient) ChatService {
  serviceLog := log.With("service", "ChatService")
  return &chatService{
    db:               db,
    log:              serviceLog,
    conversationRepo: conversationRepo,
    messageRepo:      messageRepo,
    ai:               ai,
  }
}

func (s *chatService) StartConversation(ctx context.Context, userID uuid.UUID, kind types.ConversationKind, title string) (*types.ChatConversation, error) {
  if userID == uuid.Nil {
    return nil, apierr.Validation("user id is required")
  }
  if kind != types.ConversationFree && kind != types.ConversationExercise {
    return nil, apierr.Validation("unknown conversation kind %q", kind)
  }

  conversation := &types.ChatConversation{
    UserID: userID,
    Kind:   kind,
    Title:  strings.TrimSpace(title),
  }
  if err := s.conversationRepo.Create(ctx, nil, conversation); err != nil {
    return nil, apierr.Persistence(err)
  }
  return conversation, nil
}

func (s *chatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]*types.ChatConversation, error) {
  if userID == uuid.Nil {
    return nil, apierr.Validation("user id is required")
  }
  rows, err := s.conversationRepo.ListByUserID(ctx, nil, userID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  return rows, nil
}

func (s *chatService) GetTranscript(ctx context.Context, userID, conversationID uuid.UUID) ([]*types.ChatMessage, error) {
  if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
    return nil, err
  }
  rows, err := s.messageRepo.ListByConversationID(ctx, nil, conversationID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  return rows, nil
}

// SendMessage appends the learner's message, asks the model for a reply
// with the recent transcript as context, and appends the reply. The
// learner's message survives even when the model call fails.
func (s *chatService) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, content string) (*types.ChatMessage, error) {
  content = strings.TrimSpace(content)
  if content == "" {
    return nil, apierr.Validation("message content is required")
  }
  if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
    return nil, err
  }

  userMessage := &types.ChatMessage{
    ConversationID: conversationID,
    UserID:         userID,
    Role:           types.ChatRoleUser,
    Content:        content,
  }
  if err := s.messageRepo.Create(ctx, nil, userMessage); err != nil {
    return nil, apierr.Persistence(err)
  }

  history, err := s.messageRepo.ListByConversationID(ctx, nil, conversationID)
  if err != nil {
    return nil, apierr.Persistence(err)
  }
  if len(history) > chatHistoryLimit {
    history = history[len(history)-chatHistoryLimit:]
  }

  transcript := make([]AIMessage, 0, len(history)+1)
  transcript = append(transcript, AIMessage{
    Role:    "system",
    Content: "You are a patient tutor for a school learner. Explain step by step and never give away graded answers directly.",
  })
  for _, msg := range history {
    transcript = append(transcript, AIMessage{Role: msg.Role, Content: msg.Content})
  }

  reply, err := s.ai.Complete(ctx, transcript)
  if err != nil {
    s.log.Error("Chat completion failed", "user_id", userID, "conversation_id", conversationID, "error", err)
    return nil, apierr.New(502, "upstream_error", err)
  }

  assistantMessage := &types.ChatMessage{
    ConversationID: conversationID,
    UserID:         userID,
    Role:           types.ChatRoleAssistant,
    Content:        reply,
  }
  if err := s.messageRepo.Create(ctx, nil, assistantMessage); err != nil {
    return nil, apierr.Persistence(err)
  }
  return assistantMessage, nil
}

func (s *chatService) ownedConversation(ctx context.Context, userID, conversationID uuid.UUID) (*types.ChatConversation, error) {
  conversation, err := s.conversationRepo.GetByID(ctx, nil, conversationID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("conversation %s not found", conversationID)
    }
    return nil, apierr.Persistence(err)
  }
  if conversation.UserID != userID {
    return nil, apierr.NotFound("conversation %s not found", conversationID)
  }
  return conversation, nil
}
