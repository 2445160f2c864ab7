package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/pkg/pagination"
	"github.com/pixelated-empathy/bias-engine/pkg/query"
	"github.com/pixelated-empathy/bias-engine/pkg/repository"
)

type repo struct {
	db         *sql.DB
	engine     *engine.Engine
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	eng *engine.Engine,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     eng,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SessionID", "Fingerprint")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// FindBySession returns the most recent analysis for a session.
func (r *repo) FindBySession(ctx context.Context, sessionID string) (*Analysis, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SessionID", sessionID).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Analyze runs the engine against the session and persists the result.
// Cache hits are served from the stored history when available; a hit whose
// row has aged out of the table (shared cache outliving local history) is
// re-persisted.
func (r *repo) Analyze(ctx context.Context, session *engine.SessionInput) (*Analysis, error) {
	result, err := r.engine.Analyze(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("analyze session %s: %w", session.SessionID, err)
	}

	if result.CacheHit {
		if a, findErr := r.Find(ctx, result.ID); findErr == nil {
			a.CacheHit = true
			return a, nil
		}
	}

	a, err := r.persist(ctx, result)
	if err != nil {
		return nil, err
	}

	a.CacheHit = result.CacheHit
	return a, nil
}

func (r *repo) persist(ctx context.Context, result *engine.AnalysisResult) (*Analysis, error) {
	signalsJSON, err := json.Marshal(result.Signals)
	if err != nil {
		return nil, fmt.Errorf("marshal signals: %w", err)
	}

	q := `
		INSERT INTO analyses(
			id, session_id, fingerprint, overall_score, alert_level,
			signals, degraded, analyzed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET analyzed_at = EXCLUDED.analyzed_at
		RETURNING id, session_id, fingerprint, overall_score, alert_level,
				  signals, degraded, analyzed_at, created_at`

	insertArgs := []any{
		result.ID,
		result.SessionID,
		result.Fingerprint,
		result.OverallScore,
		string(result.AlertLevel),
		signalsJSON,
		result.Degraded,
		result.AnalyzedAt,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanAnalysis)
	})
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	return &a, nil
}
