package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Message is one templated notification addressed by phone number.
type Message struct {
	Phone    string
	Template string
	Params   []string
}

// Sender delivers templated notifications. Delivery is best effort: a failed
// send is logged by the caller and never blocks the order flow.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPSender implements Sender against a template-message HTTP API.
type HTTPSender struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// NewHTTPSender creates the messaging sender.
func NewHTTPSender(baseURL, token string, logger *slog.Logger) (*HTTPSender, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse messaging url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("messaging url must be absolute")
	}
	return &HTTPSender{
		baseURL: parsed,
		logger:  logger,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type sendRequest struct {
	To       string   `json:"to"`
	Template string   `json:"template"`
	Params   []string `json:"params"`
}

// Send posts one templated message.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	if msg.Phone == "" {
		return fmt.Errorf("message without recipient")
	}

	body, err := json.Marshal(sendRequest{To: msg.Phone, Template: msg.Template, Params: msg.Params})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	endpoint := *s.baseURL
	endpoint.Path = endpoint.Path + "/v1/messages"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		s.logger.Error("message send failed",
			slog.Int("status", resp.StatusCode),
			slog.String("template", msg.Template),
			slog.String("body", string(respBody)),
		)
		return fmt.Errorf("messaging error: %s", resp.Status)
	}
	return nil
}

// NoopSender is used when no messaging provider is configured.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }
