package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "time"

  "github.com/classbridge/classbridge-backend/internal/logger"
  "github.com/classbridge/classbridge-backend/internal/utils"
)

type AIMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

// AIClient produces a completion for a chat transcript.
type AIClient interface {
  Complete(ctx context.Context, messages []AIMessage) (string, error)
}

type openAIClient struct {
  log        *logger.Logger
  httpClient *http.Client
  apiKey     string
  model      string
  baseURL    string
}

func NewOpenAIClient(log *logger.Logger) AIClient {
  clientLog := log.With("client", "OpenAIClient")
  return &openAIClient{
    log:        clientLog,
    httpClient: &http.Client{Timeout: 60 * time.Second},
    apiKey:     utils.GetEnv("OPENAI_API_KEY", "", clientLog),
    model:      utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", clientLog),
    baseURL:    utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", clientLog),
  }
}

type chatCompletionRequest struct {
  Model    string      `json:"model"`
  Messages []AIMessage `json:"messages"`
}

type chatCompletionResponse struct {
  Choices []struct {
    Message AIMessage `json:"message"`
  } `json:"choices"`
  Error *struct {
    Message string `json:"message"`
  } `json:"error,omitempty"`
}

func (c *openAIClient) Complete(ctx context.Context, messages []AIMessage) (string, error) {
  if c.apiKey == "" {
    return "", fmt.Errorf("openai api key is not configured")
  }

  payload, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: messages})
  if err != nil {
    return "", err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
  if err != nil {
    return "", err
  }
  req.Header.Set("Content-Type", "application/json")
  req.Header.Set("Authorization", "Bearer "+c.apiKey)

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return "", err
  }
  defer resp.Body.Close()

  body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
  if err != nil {
    return "", err
  }

  var parsed chatCompletionResponse
  if err := json.Unmarshal(body, &parsed); err != nil {
    return "", fmt.Errorf("openai response was not valid json (status %d)", resp.StatusCode)
  }
  if resp.StatusCode != http.StatusOK {
    msg := "unknown error"
    if parsed.Error != nil {
      msg = parsed.Error.Message
    }
    return "", fmt.Errorf("openai request failed (status %d): %s", resp.StatusCode, msg)
  }
  if len(parsed.Choices) == 0 {
    return "", fmt.Errorf("openai returned no choices")
  }
  return parsed.Choices[0].Message.Content, nil
}
