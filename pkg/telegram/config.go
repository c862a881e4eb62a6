package telegram

import "time"

const (
	DefaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 15 * time.Second
)

// Config holds the bot credentials and the chat that receives orders.
type Config struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Timeout  time.Duration
}

// Configured reports whether both the token and the destination chat are set.
func (c Config) Configured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
