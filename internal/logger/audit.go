package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditLog appends one JSON line per recorded event. It is independent of
// the process logger and its level.
type AuditLog struct {
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

func NewAuditLog(w io.Writer) *AuditLog {
	return &AuditLog{
		log: zerolog.New(w).Level(zerolog.TraceLevel),
		now: time.Now,
	}
}

// Record writes an event of eventType with details and returns its id.
func (a *AuditLog) Record(eventType string, details map[string]interface{}) string {
	id := uuid.NewString()

	a.mu.Lock()
	defer a.mu.Unlock()

	e := a.log.Log().
		Str("event_id", id).
		Time("timestamp", a.now().UTC()).
		Str("event_type", eventType)
	if len(details) > 0 {
		e = e.Fields(details)
	}
	e.Send()
	return id
}

// OpenAuditFile opens path for appending, creating it with 0600 if needed.
// Rotation is left to logrotate.
func OpenAuditFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
