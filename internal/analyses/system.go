package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	FindBySession(ctx context.Context, sessionID string) (*Analysis, error)
	Analyze(ctx context.Context, session *engine.SessionInput) (*Analysis, error)
}
