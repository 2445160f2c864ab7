package alerts

import (
	"context"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/pkg/pagination"
)

// System defines the public contract for the alert audit trail. It extends
// AuditSink with the query surface the dashboard API consumes.
type System interface {
	AuditSink

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Event], error)

	Find(ctx context.Context, id uuid.UUID) (*Event, error)
}
