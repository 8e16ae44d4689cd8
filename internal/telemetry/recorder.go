package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/pkg/repository"
)

// ErrDisabled is returned by Exists when no database backs the recorder.
var ErrDisabled = errors.New("telemetry disabled")

// Recorder opens telemetry sessions. Each logical operation (one classify
// call, one batch) uses its own session.
type Recorder interface {
	Begin(ctx context.Context) (Session, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Session records events inside one transaction. Record never fails the
// caller; the Outcome reports what happened. A session must end with exactly
// one of Commit or Rollback.
type Session interface {
	Record(ctx context.Context, e Event) Outcome
	Commit() error
	Rollback() error
}

// New returns a database-backed Recorder, or a disabled one when db is nil or
// enabled is false.
func New(db *sql.DB, enabled bool, logger *slog.Logger) Recorder {
	logger = logger.With("system", "telemetry")
	if db == nil || !enabled {
		return disabled{}
	}
	return &recorder{db: db, logger: logger}
}

const existsQuery = `SELECT EXISTS (SELECT 1 FROM classification WHERE classification_id = $1)`

// Exists reports whether a classification event with id exists, by primary key.
func Exists(ctx context.Context, q repository.Querier, id uuid.UUID) (bool, error) {
	var found bool
	if err := q.QueryRowContext(ctx, existsQuery, id).Scan(&found); err != nil {
		return false, fmt.Errorf("check classification %s: %w", id, err)
	}
	return found, nil
}

type recorder struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *recorder) Begin(ctx context.Context) (Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin telemetry session: %w", err)
	}
	return &session{tx: tx, logger: r.logger}, nil
}

func (r *recorder) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return Exists(ctx, r.db, id)
}

type disabled struct{}

func (disabled) Begin(context.Context) (Session, error) {
	return disabledSession{}, nil
}

func (disabled) Exists(context.Context, uuid.UUID) (bool, error) {
	return false, ErrDisabled
}

type disabledSession struct{}

func (disabledSession) Record(context.Context, Event) Outcome { return Skipped() }
func (disabledSession) Commit() error                         { return nil }
func (disabledSession) Rollback() error                       { return nil }
