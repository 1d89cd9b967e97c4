package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const telegramBaseURL = "https://api.telegram.org"

// Relay delivers a text message to the shop's notification channel.
type Relay interface {
	Send(ctx context.Context, text string) error
}

// HTTPClient lets tests substitute the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TelegramRelay posts messages to a fixed chat via the Bot API.
type TelegramRelay struct {
	botToken string
	chatID   string
	baseURL  string
	client   HTTPClient
}

func NewTelegramRelay(botToken, chatID string) *TelegramRelay {
	return NewTelegramRelayWithClient(botToken, chatID, "", &http.Client{Timeout: 10 * time.Second})
}

func NewTelegramRelayWithClient(botToken, chatID, baseURL string, client HTTPClient) *TelegramRelay {
	if baseURL == "" {
		baseURL = telegramBaseURL
	}
	return &TelegramRelay{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   client,
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (r *TelegramRelay) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: r.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram: encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", r.baseURL, r.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
