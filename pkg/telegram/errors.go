package telegram

import "errors"

var (
	ErrNotConfigured = errors.New("telegram bot token or chat id not configured")
	ErrUnauthorized  = errors.New("telegram bot token rejected")
	ErrChatNotFound  = errors.New("telegram chat not found")
	ErrRateLimited   = errors.New("telegram rate limit exceeded")
	ErrNetworkError  = errors.New("telegram network error")
	ErrRequestFailed = errors.New("telegram request failed")
)
