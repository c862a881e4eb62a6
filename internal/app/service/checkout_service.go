package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/pkg/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"

	StatusSent          = "sent"
	StatusFailed        = "failed"
	StatusNotConfigured = "not_configured"
)

// ChatTransport delivers a message to a chat, e.g. a Telegram group.
type ChatTransport interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID, text string) error
}

// EmailTransport delivers a single plain-text email.
type EmailTransport interface {
	Configured() bool
	Send(ctx context.Context, subject, body, from, to string) error
}

// ChannelConfigurationError means the channel was skipped because it is not set up.
type ChannelConfigurationError struct {
	Channel string
	Reason  string
}

func (e *ChannelConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Channel, e.Reason)
}

// ChannelDeliveryError wraps the transport error of an attempted delivery.
type ChannelDeliveryError struct {
	Channel string
	Err     error
}

func (e *ChannelDeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Channel, e.Err)
}

func (e *ChannelDeliveryError) Unwrap() error {
	return e.Err
}

type ChannelResult struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func newChannelResult(channel string, err error) ChannelResult {
	result := ChannelResult{Channel: channel, Status: StatusSent}
	if err == nil {
		return result
	}

	result.Error = err.Error()
	var cfgErr *ChannelConfigurationError
	if errors.As(err, &cfgErr) {
		result.Status = StatusNotConfigured
	} else {
		result.Status = StatusFailed
	}
	return result
}

type CheckoutOutcome struct {
	OrderNumber string          `json:"order_number"`
	TotalPrice  decimal.Decimal `json:"-"`
	PlacedAt    time.Time       `json:"placed_at"`
	Channels    []ChannelResult `json:"channels"`
	Message     string          `json:"message"`
}

// Delivered reports whether at least one channel got the order through.
func (o *CheckoutOutcome) Delivered() bool {
	for _, ch := range o.Channels {
		if ch.Status == StatusSent {
			return true
		}
	}
	return false
}

type CheckoutConfig struct {
	ChatID         string
	FromEmail      string
	ChannelTimeout time.Duration
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID uint, overrides ContactOverrides) (*CheckoutOutcome, error)
}

type checkoutService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	contacts ContactService
	chat     ChatTransport
	email    EmailTransport
	config   CheckoutConfig

	now         func() time.Time
	orderNumber func() string
}

func NewCheckoutService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	contacts ContactService,
	chat ChatTransport,
	email EmailTransport,
	config CheckoutConfig,
) CheckoutService {
	if config.ChannelTimeout <= 0 {
		config.ChannelTimeout = 10 * time.Second
	}
	return &checkoutService{
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		contacts:    contacts,
		chat:        chat,
		email:       email,
		config:      config,
		now:         time.Now,
		orderNumber: NewOrderNumber,
	}
}

// Checkout turns the cart into an order notification. The cart is emptied
// as soon as the snapshot is taken; channel failures only show up in the
// outcome.
func (s *checkoutService) Checkout(ctx context.Context, userID uint, overrides ContactOverrides) (*CheckoutOutcome, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	items, err := s.cartRepo.TakeItems(cart.ID)
	if err != nil {
		logger.Error("Failed to take cart items for checkout", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}
	if len(items) == 0 {
		// emptied by a concurrent checkout
		return nil, ErrEmptyCart
	}

	snapshot := NewOrderSnapshot(s.orderNumber(), s.now(), items, ResolveContact(user, overrides), overrides.Comment)
	body := snapshot.Render()

	logger.Info("Order accepted, dispatching notifications", map[string]interface{}{
		"user_id":      userID,
		"order_number": snapshot.Number,
		"lines":        len(snapshot.Lines),
		"total":        Money(snapshot.Total),
	})

	results := make([]ChannelResult, 2)
	var g errgroup.Group
	g.Go(func() error {
		results[0] = newChannelResult(ChannelTelegram, s.sendChat(ctx, body))
		return nil
	})
	g.Go(func() error {
		results[1] = newChannelResult(ChannelEmail, s.sendEmail(ctx, snapshot.Subject(), body))
		return nil
	})
	g.Wait()

	for _, r := range results {
		if r.Status != StatusSent {
			logger.Warn("Order notification not delivered", map[string]interface{}{
				"order_number": snapshot.Number,
				"channel":      r.Channel,
				"status":       r.Status,
				"error":        r.Error,
			})
		}
	}

	return &CheckoutOutcome{
		OrderNumber: snapshot.Number,
		TotalPrice:  snapshot.Total,
		PlacedAt:    snapshot.PlacedAt,
		Channels:    results,
		Message:     summarize(snapshot.Number, results),
	}, nil
}

func (s *checkoutService) sendChat(ctx context.Context, text string) error {
	if s.chat == nil || !s.chat.Configured() {
		return &ChannelConfigurationError{Channel: ChannelTelegram, Reason: "bot token or chat id missing"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ChannelTimeout)
	defer cancel()

	if err := s.chat.SendMessage(ctx, s.config.ChatID, text); err != nil {
		return &ChannelDeliveryError{Channel: ChannelTelegram, Err: err}
	}
	return nil
}

func (s *checkoutService) sendEmail(ctx context.Context, subject, body string) error {
	if s.email == nil || !s.email.Configured() {
		return &ChannelConfigurationError{Channel: ChannelEmail, Reason: "smtp host missing"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ChannelTimeout)
	defer cancel()

	to := s.recipient(ctx)
	if to == "" || s.config.FromEmail == "" {
		return &ChannelConfigurationError{Channel: ChannelEmail, Reason: "no sender or recipient address"}
	}

	if err := s.email.Send(ctx, subject, body, s.config.FromEmail, to); err != nil {
		return &ChannelDeliveryError{Channel: ChannelEmail, Err: err}
	}
	return nil
}

// recipient is the shop's contact email, or the sender address when unset.
func (s *checkoutService) recipient(ctx context.Context) string {
	if s.contacts != nil {
		info, err := s.contacts.Get(ctx)
		if err != nil {
			logger.Warn("Failed to load contact info for order email", map[string]interface{}{
				"error": err.Error(),
			})
		} else if info.Email != "" {
			return info.Email
		}
	}
	return s.config.FromEmail
}

func summarize(orderNumber string, results []ChannelResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case StatusSent:
			parts = append(parts, r.Channel+": sent")
		case StatusNotConfigured:
			parts = append(parts, fmt.Sprintf("%s: not configured (%s)", r.Channel, r.Error))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed (%s)", r.Channel, r.Error))
		}
	}
	return fmt.Sprintf("Order #%s accepted (%s)", orderNumber, strings.Join(parts, ", "))
}
