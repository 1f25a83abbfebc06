package notifier

import "context"

const (
	auditSent   = "notification_sent"
	auditFailed = "notification_failed"
)

// AuditRecorder stores one event per delivery attempt.
type AuditRecorder interface {
	Record(eventType string, details map[string]interface{}) string
}

// AuditedNotifier records every delivery attempt of the wrapped notifier.
type AuditedNotifier struct {
	next  Notifier
	audit AuditRecorder
}

func NewAuditedNotifier(next Notifier, audit AuditRecorder) *AuditedNotifier {
	return &AuditedNotifier{next: next, audit: audit}
}

func (n *AuditedNotifier) Name() string { return n.next.Name() }

func (n *AuditedNotifier) Notify(ctx context.Context, text string) error {
	err := n.next.Notify(ctx, text)

	details := map[string]interface{}{
		"channel": n.next.Name(),
		"text":    text,
	}
	eventType := auditSent
	if err != nil {
		eventType = auditFailed
		details["error"] = err.Error()
	}
	n.audit.Record(eventType, details)
	return err
}
