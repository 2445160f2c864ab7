package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/archive"
)

// Dispatcher routes classified analysis results to sinks by severity:
// warning and above to the audit sink, high and above to the notification
// sink, critical additionally to the compliance archive. It implements
// engine.AlertDispatcher. Sink failures are logged, never propagated.
type Dispatcher struct {
	audit         AuditSink
	notifier      NotificationSink
	archive       archive.System
	notifyTimeout time.Duration
	retryBackoff  time.Duration
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher. The audit sink is required; notifier
// and archive may be nil to disable those channels.
func NewDispatcher(
	cfg *Config,
	audit AuditSink,
	notifier NotificationSink,
	archiveSys archive.System,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if audit == nil {
		return nil, fmt.Errorf("audit sink required")
	}

	return &Dispatcher{
		audit:         audit,
		notifier:      notifier,
		archive:       archiveSys,
		notifyTimeout: cfg.NotifyTimeoutDuration(),
		retryBackoff:  cfg.RetryBackoffDuration(),
		logger:        logger.With("system", "alerts"),
	}, nil
}

// Dispatch records and routes one analysis result. Results below warning
// produce no dispatch. The audit write happens inline so the event is
// durable before the caller sees the result; notification and archival are
// fire-and-forget.
func (d *Dispatcher) Dispatch(ctx context.Context, result *engine.AnalysisResult) {
	if !result.AlertLevel.AtLeast(engine.AlertWarning) {
		return
	}

	event := NewEvent(result)

	if err := d.audit.Record(ctx, event); err != nil {
		d.logger.ErrorContext(
			ctx, "audit record failed",
			"session_id", event.SessionID,
			"level", event.Level,
			"error", err,
		)
	}

	if result.AlertLevel.AtLeast(engine.AlertHigh) && d.notifier != nil {
		go d.notify(event)
	}

	if result.AlertLevel == engine.AlertCritical && d.archive != nil {
		go d.archiveEvent(event)
	}
}

// notify delivers the event with one retry after a fixed backoff. Runs
// detached from the request context so a slow sink never blocks analysis.
func (d *Dispatcher) notify(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.notifyTimeout)
	defer cancel()

	err := d.notifier.Notify(ctx, event)
	if err == nil {
		return
	}

	d.logger.Warn(
		"notification failed, retrying",
		"session_id", event.SessionID,
		"level", event.Level,
		"error", err,
	)

	time.Sleep(d.retryBackoff)

	retryCtx, retryCancel := context.WithTimeout(context.Background(), d.notifyTimeout)
	defer retryCancel()

	if err := d.notifier.Notify(retryCtx, event); err != nil {
		d.logger.Error(
			"notification abandoned",
			"session_id", event.SessionID,
			"level", event.Level,
			"error", err,
		)
	}
}

func (d *Dispatcher) archiveEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.notifyTimeout)
	defer cancel()

	data, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("archive encode failed", "session_id", event.SessionID, "error", err)
		return
	}

	key := fmt.Sprintf("alerts/%s/%s.json", event.SessionID, event.AnalysisID)
	if err := d.archive.Store(ctx, key, data, "application/json"); err != nil {
		d.logger.Error("archive store failed", "key", key, "error", err)
	}
}
