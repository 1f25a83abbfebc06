package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier posts messages to a single Telegram chat or channel.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	channel  string
	endpoint string
}

type TelegramOption func(*TelegramNotifier)

// WithTelegramEndpoint overrides the Bot API endpoint format
// (tgbotapi.APIEndpoint by default).
func WithTelegramEndpoint(endpoint string) TelegramOption {
	return func(n *TelegramNotifier) {
		n.endpoint = endpoint
	}
}

// NewTelegramNotifier builds a notifier for chatID, which is either a
// numeric chat id or a public channel name starting with "@". No request
// is made until the first Notify.
func NewTelegramNotifier(token, chatID string, timeout time.Duration, opts ...TelegramOption) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}

	n := &TelegramNotifier{endpoint: tgbotapi.APIEndpoint}
	chatID = strings.TrimSpace(chatID)
	switch {
	case strings.HasPrefix(chatID, "@") && len(chatID) > 1:
		n.channel = chatID
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: must be numeric or start with @", chatID)
		}
		n.chatID = id
	}

	for _, opt := range opts {
		opt(n)
	}

	n.bot = &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	n.bot.SetAPIEndpoint(n.endpoint)

	return n, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return deliveryError(n.Name(), err)
	}

	var msg tgbotapi.MessageConfig
	if n.channel != "" {
		msg = tgbotapi.NewMessageToChannel(n.channel, text)
	} else {
		msg = tgbotapi.NewMessage(n.chatID, text)
	}

	if _, err := n.bot.Send(msg); err != nil {
		return deliveryError(n.Name(), n.redact(err))
	}
	return nil
}

// redact drops the request URL, which carries the bot token, from err and
// masks the token anywhere else in the message.
func (n *TelegramNotifier) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = fmt.Errorf("%s sendMessage: %w", strings.ToUpper(uerr.Op), uerr.Err)
	}
	if msg := err.Error(); strings.Contains(msg, n.bot.Token) {
		return &redactedError{msg: strings.ReplaceAll(msg, n.bot.Token, "<redacted>"), err: err}
	}
	return err
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
