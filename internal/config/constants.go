package config

// Notifier kinds accepted in NOTIFIER.
const (
	NotifierTelegram = "telegram"
	NotifierSlack    = "slack"
	// NotifierLog writes notifications to the log. It needs no secrets.
	NotifierLog = "log"
)

// Environment / config keys. Viper matches them case-insensitively against
// the environment, so PRACTICUM_TOKEN maps to KeyPracticumToken.
const (
	KeyPracticumToken = "practicum_token"
	KeyTelegramToken  = "telegram_token"
	KeyTelegramChatID = "telegram_chat_id"
	KeySlackToken     = "slack_token"
	KeySlackChannel   = "slack_channel"
	KeyNotifier       = "notifier"
	KeyEndpoint       = "endpoint"
	KeyRetryTime      = "retry_time"
	KeyRequestTimeout = "request_timeout"
	KeyLogLevel       = "log_level"
	KeyJSONLog        = "json_log"
	KeyMetricsAddr    = "metrics_addr"
	KeyAuditLog       = "audit_log"
)

// Default values used when the environment does not provide one or
// provides an invalid one.
const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryTime      = 600
	DefaultRequestTimeout = 5
	DefaultLogLevel       = "info"
	DefaultMetricsAddr    = ":9090"
	DefaultEnvFile        = ".env"
)
