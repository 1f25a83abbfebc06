package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the immutable runtime configuration, built once at startup.
type Config struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
	SlackToken     string
	SlackChannel   string
	Notifier       string
	Endpoint       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	JSONLog        bool
	MetricsAddr    string
	// AuditLog is a file receiving one line per delivery attempt. Empty
	// disables the audit trail.
	AuditLog string
}

type LoadOptions struct {
	// EnvFile is a dotenv file merged into the process environment. Values
	// already set in the environment take precedence. Empty skips it.
	EnvFile string
	// ConfigFile is an optional file in any format viper understands.
	// The environment overrides it.
	ConfigFile string
	// Notifier and LogLevel override every other source when set.
	Notifier string
	LogLevel string
}

// Load reads the configuration from the dotenv file, the optional config
// file and the environment, validates it and applies defaults. Warnings
// describe values that were replaced by defaults.
func Load(opts LoadOptions) (Config, []string, error) {
	var warnings []string

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, warnings, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
			}
			warnings = append(warnings, fmt.Sprintf("env file %s not found, using process environment only", opts.EnvFile))
		}
	}

	v := viper.New()
	v.SetDefault(KeyNotifier, NotifierTelegram)
	v.SetDefault(KeyEndpoint, DefaultEndpoint)
	v.SetDefault(KeyRetryTime, DefaultRetryTime)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyJSONLog, false)
	v.SetDefault(KeyMetricsAddr, DefaultMetricsAddr)
	v.SetDefault(KeyAuditLog, "")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, warnings, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := Config{
		PracticumToken: v.GetString(KeyPracticumToken),
		TelegramToken:  v.GetString(KeyTelegramToken),
		TelegramChatID: v.GetString(KeyTelegramChatID),
		SlackToken:     v.GetString(KeySlackToken),
		SlackChannel:   v.GetString(KeySlackChannel),
		Notifier:       v.GetString(KeyNotifier),
		Endpoint:       v.GetString(KeyEndpoint),
		PollInterval:   time.Duration(v.GetInt(KeyRetryTime)) * time.Second,
		RequestTimeout: time.Duration(v.GetInt(KeyRequestTimeout)) * time.Second,
		LogLevel:       v.GetString(KeyLogLevel),
		JSONLog:        v.GetBool(KeyJSONLog),
		MetricsAddr:    v.GetString(KeyMetricsAddr),
		AuditLog:       v.GetString(KeyAuditLog),
	}

	if opts.Notifier != "" {
		cfg.Notifier = opts.Notifier
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	validationWarnings, err := cfg.Validate()
	warnings = append(warnings, validationWarnings...)
	if err != nil {
		return Config{}, warnings, err
	}
	return cfg, warnings, nil
}
