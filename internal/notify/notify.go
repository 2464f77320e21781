package notify

import (
	"context"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/eshaffer321/cashflow-go/internal/types"
)

// Notifier delivers a plain-text alert
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// TelegramOptions configures the Telegram notifier
type TelegramOptions struct {
	Token  string
	ChatID int64
	// APIEndpoint overrides tgbotapi.APIEndpoint, mainly for tests
	APIEndpoint string
	HTTPClient  *http.Client
}

// Telegram sends alerts to one chat
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authenticates the bot and returns a notifier for opts.ChatID
func NewTelegram(opts TelegramOptions) (*Telegram, error) {
	if opts.Token == "" || opts.ChatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}

	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: types.DefaultTimeout}
	}

	api, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, client)
	if err != nil {
		return nil, errors.Wrap(err, "create bot")
	}

	return &Telegram{api: api, chatID: opts.ChatID}, nil
}

// Notify sends text to the configured chat
func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	return nil
}

// Log writes alerts to a logger when no chat is configured
type Log struct {
	Logger types.Logger
}

// Notify logs text at warn level
func (l *Log) Notify(ctx context.Context, text string) error {
	if l.Logger == nil {
		return errors.New("no logger configured")
	}
	l.Logger.Warn("Cash-flow alert", "message", text)
	return nil
}
