package notifier

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// SlackNotifier posts messages to a single Slack channel as a bot user.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

type SlackOption func(*[]slack.Option)

// WithSlackAPIURL points the client at a different Web API base URL.
func WithSlackAPIURL(url string) SlackOption {
	return func(opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(url))
	}
}

func NewSlackNotifier(token, channel string, timeout time.Duration, opts ...SlackOption) (*SlackNotifier, error) {
	if token == "" {
		return nil, errors.New("slack token is empty")
	}
	if channel == "" {
		return nil, errors.New("slack channel is empty")
	}

	clientOpts := []slack.Option{slack.OptionHTTPClient(&http.Client{Timeout: timeout})}
	for _, opt := range opts {
		opt(&clientOpts)
	}

	return &SlackNotifier{
		client:  slack.New(token, clientOpts...),
		channel: channel,
	}, nil
}

func (n *SlackNotifier) Name() string { return "slack" }

func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return deliveryError(n.Name(), err)
	}
	return nil
}
