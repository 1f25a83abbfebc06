package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/practicum-bots/homework-notifier/internal/logger"
	"github.com/rs/zerolog"
)

type secret struct {
	env   string
	value string
}

// Validate checks the configuration and replaces invalid tunables with
// defaults. Missing secrets, an unknown notifier or a malformed endpoint
// are errors. Everything else only produces warnings.
func (c *Config) Validate() ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var warnings []string

	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	if c.Notifier == "" {
		c.Notifier = NotifierTelegram
	}

	required := []secret{{"PRACTICUM_TOKEN", c.PracticumToken}}
	switch c.Notifier {
	case NotifierTelegram:
		required = append(required,
			secret{"TELEGRAM_TOKEN", c.TelegramToken},
			secret{"TELEGRAM_CHAT_ID", c.TelegramChatID},
		)
	case NotifierSlack:
		required = append(required,
			secret{"SLACK_TOKEN", c.SlackToken},
			secret{"SLACK_CHANNEL", c.SlackChannel},
		)
	case NotifierLog:
	default:
		return warnings, fmt.Errorf("invalid notifier %q: valid options are %s, %s, %s", c.Notifier, NotifierTelegram, NotifierSlack, NotifierLog)
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return warnings, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if strings.TrimSpace(c.Endpoint) == "" {
		c.Endpoint = DefaultEndpoint
	}
	u, err := url.ParseRequestURI(c.Endpoint)
	if err != nil {
		return warnings, fmt.Errorf("invalid URL provided for endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return warnings, fmt.Errorf("invalid URL provided for endpoint: unsupported scheme %q", u.Scheme)
	}

	if c.PollInterval <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid retry_time provided, using default of %d seconds", DefaultRetryTime))
		c.PollInterval = DefaultRetryTime * time.Second
	}

	if c.RequestTimeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid request_timeout provided, using default of %d seconds", DefaultRequestTimeout))
		c.RequestTimeout = DefaultRequestTimeout * time.Second
	}
	if c.RequestTimeout >= c.PollInterval {
		warnings = append(warnings, fmt.Sprintf("request_timeout %s is not shorter than retry_time %s", c.RequestTimeout, c.PollInterval))
	}

	if c.LogLevel == "" {
		c.LogLevel = zerolog.LevelInfoValue
	} else if !logger.ValidLevel(c.LogLevel) {
		warnings = append(warnings, fmt.Sprintf(
			"invalid log_level '%s' provided. Valid options are: trace, debug, info, warn, error, fatal, panic. Defaulting to 'info'.",
			c.LogLevel,
		))
		c.LogLevel = zerolog.LevelInfoValue
	}

	return warnings, nil
}
