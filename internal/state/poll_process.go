package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/practicum-bots/homework-notifier/internal/logger"
	"github.com/practicum-bots/homework-notifier/internal/notifier"
	"github.com/rs/zerolog"
)

const PollStatusJobName = "poll_homework_status"

const alertPrefix = "Program failure: "

// Snapshot is a read-only view of the poll process published for the
// health endpoint.
type Snapshot struct {
	Watermark   int64     `json:"watermark"`
	Cycles      uint64    `json:"cycles"`
	LastResult  string    `json:"last_result,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastCycle   time.Time `json:"last_cycle,omitempty"`
	LastSuccess time.Time `json:"last_success,omitempty"`
}

// Healthy reports whether the last cycle succeeded. A process that has not
// run yet is healthy.
func (s Snapshot) Healthy() bool {
	return s.LastResult != cycleError
}

// PollProcess runs one fetch/validate/translate/notify cycle per Execute.
// The watermark and the alert cache belong to the goroutine calling
// Execute; Execute must not be called concurrently.
type PollProcess struct {
	name      string
	fetcher   StatusFetcher
	notifier  notifier.Notifier
	metrics   *Metrics
	now       func() time.Time
	watermark int64
	// lastAlert is the fingerprint of the last alert that was delivered.
	lastAlert string

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewPollProcess creates a poll process starting at watermark. metrics may
// be nil.
func NewPollProcess(fetcher StatusFetcher, n notifier.Notifier, watermark int64, metrics *Metrics) *PollProcess {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	metrics.watermark.Set(float64(watermark))
	return &PollProcess{
		name:      PollStatusJobName,
		fetcher:   fetcher,
		notifier:  n,
		metrics:   metrics,
		now:       time.Now,
		watermark: watermark,
		snapshot:  Snapshot{Watermark: watermark},
	}
}

func (p *PollProcess) Name() string {
	return p.name
}

// Watermark returns the current from_date cursor. Only the goroutine
// calling Execute may use it; others read Snapshot.
func (p *PollProcess) Watermark() int64 {
	return p.watermark
}

// Snapshot returns the state published after the last completed cycle.
// Safe for concurrent use.
func (p *PollProcess) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Execute runs a single poll cycle. Every failure is logged and
// classified here; the returned error only reports that the cycle did
// not complete. A cycle cut short by ctx is neither counted nor alerted.
func (p *PollProcess) Execute(ctx context.Context) error {
	log := logger.FromContext(ctx).With().
		Str("process", p.name).
		Str("cycle_id", uuid.NewString()).
		Int64("from_date", p.watermark).
		Logger()

	result, err := p.runCycle(ctx, &log)
	if err != nil {
		perr := AsError(err)
		if ctx.Err() != nil {
			log.Info().Err(perr).Msg("Poll cycle interrupted by shutdown")
			return perr
		}
		p.metrics.cycles.WithLabelValues(cycleError).Inc()
		p.metrics.errors.WithLabelValues(perr.Kind.String()).Inc()
		p.publish(cycleError, perr)
		p.handleFailure(ctx, &log, perr)
		return perr
	}

	p.metrics.cycles.WithLabelValues(result).Inc()
	p.publish(result, nil)
	return nil
}

func (p *PollProcess) runCycle(ctx context.Context, log *zerolog.Logger) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = cycleError
			err = &Error{Kind: KindUnexpected, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	raw, err := p.fetcher.Fetch(ctx, p.watermark)
	if err != nil {
		return cycleError, err
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		return cycleError, err
	}

	record, ok := resp.Latest()
	if !ok {
		log.Info().Int64("current_date", resp.CurrentDate).Msg("No updates")
		p.advance(resp.CurrentDate)
		return cycleEmpty, nil
	}
	if skipped := len(resp.Homeworks) - 1; skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Acting on the latest homework only")
	}

	text, err := ParseStatus(record)
	if err != nil {
		return cycleError, err
	}

	if err := p.notifier.Notify(ctx, text); err != nil {
		p.metrics.notifications.WithLabelValues(notifyStatus, notifyFailed).Inc()
		return cycleError, &Error{Kind: KindNotify, Err: err}
	}
	p.metrics.notifications.WithLabelValues(notifyStatus, notifySent).Inc()

	log.Info().
		Str("notifier", p.notifier.Name()).
		Str("text", text).
		Int64("current_date", resp.CurrentDate).
		Msg("Notification sent")
	p.advance(resp.CurrentDate)
	return cycleOK, nil
}

func (p *PollProcess) advance(to int64) {
	p.watermark = to
	p.metrics.watermark.Set(float64(to))
	p.metrics.lastSuccess.Set(float64(p.now().Unix()))
}

// handleFailure logs the failure and, for alerting kinds, reports it
// through the notifier unless the same failure was the last one reported.
func (p *PollProcess) handleFailure(ctx context.Context, log *zerolog.Logger, perr *Error) {
	if !perr.Alerting() {
		log.Warn().
			Err(perr).
			Str("kind", perr.Kind.String()).
			Msg("Malformed status API response, not alerting")
		return
	}

	log.Error().
		Err(perr).
		Str("kind", perr.Kind.String()).
		Msg("Poll cycle failed")

	fingerprint := perr.Fingerprint()
	if fingerprint == p.lastAlert {
		p.metrics.notifications.WithLabelValues(notifyAlert, notifySuppressed).Inc()
		log.Debug().Str("fingerprint", fingerprint).Msg("Same failure already reported, alert suppressed")
		return
	}

	if err := p.notifier.Notify(ctx, alertPrefix+perr.Error()); err != nil {
		p.metrics.notifications.WithLabelValues(notifyAlert, notifyFailed).Inc()
		log.Error().
			Err(err).
			Str("notifier", p.notifier.Name()).
			Msg("Failed to send failure alert")
		return
	}

	p.metrics.notifications.WithLabelValues(notifyAlert, notifySent).Inc()
	p.lastAlert = fingerprint
	log.Info().Str("fingerprint", fingerprint).Msg("Failure alert sent")
}

func (p *PollProcess) publish(result string, perr *Error) {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Watermark = p.watermark
	p.snapshot.Cycles++
	p.snapshot.LastResult = result
	p.snapshot.LastCycle = now
	if perr != nil {
		p.snapshot.LastError = perr.Error()
		return
	}
	p.snapshot.LastError = ""
	p.snapshot.LastSuccess = now
}
