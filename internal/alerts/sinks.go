package alerts

import "context"

// AuditSink durably records alert events. Implementations are expected to
// dedupe on (session id, analyzed at).
type AuditSink interface {
	Record(ctx context.Context, event *Event) error
}

// NotificationSink delivers alert events to an external channel. Delivery is
// best-effort; the dispatcher logs and retries failures without ever
// propagating them to the analysis caller.
type NotificationSink interface {
	Notify(ctx context.Context, event *Event) error
}
