// Package telegram sends plain-text messages through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/valeriy167/paint-store/pkg/logger"
)

type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient never fails; an unconfigured client reports so via Configured
// and refuses to send.
func NewClient(config Config) *Client {
	config = config.withDefaults()
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

func (c *Client) Configured() bool {
	return c.config.Configured()
}

// ChatID is the configured destination chat.
func (c *Client) ChatID() string {
	return c.config.ChatID
}

// SendMessage posts text to chatID. Texts over MaxMessageLength are truncated.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if chatID == "" {
		chatID = c.config.ChatID
	}

	payload := sendMessageRequest{
		ChatID:                chatID,
		Text:                  truncate(text, MaxMessageLength),
		DisableWebPagePreview: true,
	}
	return c.doRequest(ctx, "sendMessage", payload)
}

func (c *Client) doRequest(ctx context.Context, method string, payload interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.config.BaseURL, c.config.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Calling Telegram Bot API", map[string]interface{}{
		"method": method,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// err carries the URL, which embeds the bot token
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ErrNetworkError, ctxErr)
		}
		return ErrNetworkError
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("%w: unexpected status code %d", ErrRequestFailed, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusOK && apiResp.OK {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiResp.Description)
	case http.StatusBadRequest, http.StatusNotFound, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrChatNotFound, apiResp.Description)
	case http.StatusTooManyRequests:
		retryAfter := 0
		if apiResp.Parameters != nil {
			retryAfter = apiResp.Parameters.RetryAfter
		}
		return fmt.Errorf("%w: retry after %ds", ErrRateLimited, retryAfter)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, apiResp.Description)
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
