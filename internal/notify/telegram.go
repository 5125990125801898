// internal/notify/telegram.go
//
// Telegram Bot API sender behind a circuit breaker.
//
// Context
// -------
// Telegram wraps go-telegram/bot's SendMessage with the fixed parameters the
// booking channel uses (HTML parse mode, audible notification).  A
// sony/gobreaker circuit opens after consecutive failures so a Telegram
// outage costs one fast error per booking instead of a full timeout.
//
// Notes
// -----
//   - The bot is built WithSkipGetMe; construction never touches the
//     network.
//   - APIURL overrides https://api.telegram.org for tests and proxies.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/metrics"
)

// ErrNotConfigured is returned by NewTelegram without token or chat id.
var ErrNotConfigured = errors.New("telegram notifier not configured")

// TelegramConfig holds the bot credentials and destination chat.
type TelegramConfig struct {
	Token  string
	ChatID string
	APIURL string
	// Failures in a row that open the circuit.  Zero means 5.
	TripAfter uint32
}

// Telegram sends messages to one chat.
type Telegram struct {
	b      *bot.Bot
	chatID string
	cb     *gobreaker.CircuitBreaker[*models.Message]
}

// NewTelegram builds the bot client and its circuit breaker.
func NewTelegram(cfg TelegramConfig, log *zap.Logger) (*Telegram, error) {
	if cfg.Token == "" || cfg.ChatID == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := []bot.Option{bot.WithSkipGetMe()}
	if cfg.APIURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.APIURL))
	}
	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram: new bot: %w", err)
	}

	trip := cfg.TripAfter
	if trip == 0 {
		trip = 5
	}
	settings := gobreaker.Settings{
		Name:     "telegram",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit state changed",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	return &Telegram{
		b:      b,
		chatID: cfg.ChatID,
		cb:     gobreaker.NewCircuitBreaker[*models.Message](settings),
	}, nil
}

// Send posts text to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	_, err := t.cb.Execute(func() (*models.Message, error) {
		return t.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:              t.chatID,
			Text:                text,
			ParseMode:           models.ParseModeHTML,
			DisableNotification: false,
		})
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// State reports the circuit state.
func (t *Telegram) State() gobreaker.State { return t.cb.State() }
