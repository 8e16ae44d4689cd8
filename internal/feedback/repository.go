package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/metrics"
	"github.com/JaimeStill/autou/internal/telemetry"
	"github.com/JaimeStill/autou/pkg/pagination"
	"github.com/JaimeStill/autou/pkg/query"
	"github.com/JaimeStill/autou/pkg/repository"
)

const upsertQuery = `
	INSERT INTO feedback (feedback_id, classification_id, helpful, reason_code)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (classification_id) DO UPDATE
	SET helpful = EXCLUDED.helpful, reason_code = EXCLUDED.reason_code`

var projection = query.NewProjection("feedback", "f").
	Join("classification c ON c.classification_id = f.classification_id").
	Project("feedback_id", "feedback_id").
	Project("ts_utc", "ts_utc").
	Project("classification_id", "classification_id").
	Project("helpful", "helpful").
	Project("reason_code", "reason_code").
	Project("c.label", "label").
	Project("c.template_code", "template_code")

var defaultSort = query.SortField{Field: "ts_utc", Descending: true}

type repo struct {
	db         *sql.DB
	metrics    *metrics.Metrics
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a feedback repository implementing the System interface.
// A nil db yields a System whose operations fail with ErrMisconfigured.
func New(db *sql.DB, m *metrics.Metrics, pagination pagination.Config, logger *slog.Logger) System {
	return &repo{
		db:         db,
		metrics:    m,
		logger:     logger.With("system", "feedback"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Submit(ctx context.Context, cmd SubmitCommand) error {
	err := r.submit(ctx, cmd)
	r.metrics.ObserveFeedback(result(err))
	return err
}

func (r *repo) submit(ctx context.Context, cmd SubmitCommand) error {
	if r.db == nil {
		return ErrMisconfigured
	}

	var reason sql.NullString
	if cmd.ReasonCode != nil {
		reason = sql.NullString{String: string(*cmd.ReasonCode), Valid: true}
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		found, err := telemetry.Exists(ctx, tx, cmd.ClassificationID)
		if err != nil {
			return struct{}{}, err
		}
		if !found {
			return struct{}{}, ErrNotFound
		}

		_, err = tx.ExecContext(ctx, upsertQuery,
			uuid.New(),
			cmd.ClassificationID,
			cmd.Helpful,
			reason,
		)
		return struct{}{}, err
	})

	if err != nil {
		// the classification row can vanish between the check and the insert
		if repository.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("upsert feedback: %w", err)
	}

	r.logger.Info("feedback stored",
		"classification_id", cmd.ClassificationID,
		"helpful", cmd.Helpful,
		"reason_code", reason.String,
	)
	return nil
}

func (r *repo) Find(ctx context.Context, classificationID uuid.UUID) (*Feedback, error) {
	if r.db == nil {
		return nil, ErrMisconfigured
	}

	q, args, err := query.NewBuilder(projection).
		WhereEquals("classification_id", classificationID).
		Build()
	if err != nil {
		return nil, err
	}

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFeedback)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound)
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Feedback], error) {
	if r.db == nil {
		return nil, ErrMisconfigured
	}

	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereEquals("helpful", filters.Helpful).
		WhereEquals("reason_code", filters.ReasonCode).
		WhereEquals("label", filters.Label).
		OrderBy(page.Sort)

	countSQL, countArgs, err := qb.BuildCount()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}

	pageSQL, pageArgs, err := qb.BuildPage(page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFeedback)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func scanFeedback(s repository.Scanner) (Feedback, error) {
	var (
		f      Feedback
		reason sql.NullString
	)
	err := s.Scan(
		&f.ID, &f.Timestamp, &f.ClassificationID, &f.Helpful, &reason,
		&f.Label, &f.TemplateCode,
	)
	if err != nil {
		return Feedback{}, err
	}
	if reason.Valid {
		code := ReasonCode(reason.String)
		f.ReasonCode = &code
	}
	return f, nil
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMisconfigured):
		return "misconfigured"
	default:
		return "error"
	}
}
