package alerts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/pkg/pagination"
	"github.com/pixelated-empathy/bias-engine/pkg/query"
	"github.com/pixelated-empathy/bias-engine/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an alert audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "alerts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Record persists the event. The (session_id, analyzed_at) unique constraint
// makes re-dispatch of the same analysis a no-op, so retries cannot
// double-record.
func (r *repo) Record(ctx context.Context, event *Event) error {
	signalsJSON, err := json.Marshal(event.Signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}

	q := `
		INSERT INTO alert_events(
			id, session_id, analysis_id, level, overall_score, signals, analyzed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, analyzed_at) DO NOTHING`

	_, err = r.db.ExecContext(
		ctx, q,
		event.ID,
		event.SessionID,
		event.AnalysisID,
		string(event.Level),
		event.OverallScore,
		signalsJSON,
		event.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("record alert event: %w", err)
	}

	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Event], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SessionID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count alert events: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	events, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("query alert events: %w", err)
	}

	result := pagination.NewPageResult(events, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Event, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}
