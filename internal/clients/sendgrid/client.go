package sendgrid

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

const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Client sends transactional mail through the SendGrid v3 API.
type Client struct {
	log        *logger.Logger
	httpClient *http.Client
	apiKey     string
	fromEmail  string
	fromName   string
}

func NewClient(baseLog *logger.Logger) *Client {
	clientLog := baseLog.With("client", "SendGridClient")
	return &Client{
		log:        clientLog,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     utils.GetEnv("SENDGRID_API_KEY", "", clientLog),
		fromEmail:  utils.GetEnv("SENDGRID_FROM_EMAIL", "no-reply@classbridge.app", clientLog),
		fromName:   utils.GetEnv("SENDGRID_FROM_NAME", "ClassBridge", clientLog),
	}
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

// Send delivers one HTML email to one recipient.
func (c *Client) Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is not configured")
	}

	payload, err := json.Marshal(mailRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: toEmail, Name: toName}}}},
		From:             emailAddress{Email: c.fromEmail, Name: c.fromName},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/html", Value: htmlBody}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sendgrid request failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
