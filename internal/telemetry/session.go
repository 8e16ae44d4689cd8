package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/autou/pkg/repository"
)

const insertQuery = `
	INSERT INTO classification (
		classification_id, ts_utc, model_version, embedding_model, threshold_used,
		label, score_produtivo, template_code, text_length_chars, latency_ms, language
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// session isolates every insert in its own savepoint so one rejected row
// leaves the transaction usable for the rest of the batch.
type session struct {
	tx     *sql.Tx
	logger *slog.Logger
	seq    int
}

func (s *session) Record(ctx context.Context, e Event) Outcome {
	if err := e.Validate(); err != nil {
		return s.discard(e, err)
	}

	s.seq++
	name := fmt.Sprintf("telemetry_%d", s.seq)

	err := repository.WithSavepoint(ctx, s.tx, name, func() error {
		_, err := s.tx.ExecContext(ctx, insertQuery,
			e.ID,
			e.Timestamp,
			e.ModelVersion,
			e.EmbeddingModel,
			e.ThresholdUsed,
			string(e.Label),
			e.PersistedScore(),
			string(e.TemplateCode),
			e.TextLengthChars,
			e.LatencyMs,
			string(e.Language),
		)
		return err
	})
	if err != nil {
		return s.discard(e, err)
	}

	return Recorded()
}

func (s *session) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit telemetry session: %w", err)
	}
	return nil
}

func (s *session) Rollback() error {
	return s.tx.Rollback()
}

func (s *session) discard(e Event, err error) Outcome {
	reason := err.Error()
	if repository.IsUniqueViolation(err) {
		reason = "duplicate classification_id"
	}

	s.logger.Warn("telemetry event discarded",
		"classification_id", e.ID,
		"sqlstate", repository.SQLState(err),
		"reason", reason,
	)
	return Discarded(reason)
}
