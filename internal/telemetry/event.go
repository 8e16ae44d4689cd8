// Package telemetry records each classification decision as an immutable
// event row. Recording is best-effort: failures are reported as an Outcome
// and never returned to the caller.
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/triage"
)

// ErrInvalidEvent indicates an event violates a classification table constraint.
var ErrInvalidEvent = errors.New("invalid telemetry event")

// Event is one classification decision. All fields are set at decision time.
type Event struct {
	ID              uuid.UUID
	Timestamp       time.Time
	ModelVersion    string
	EmbeddingModel  string
	ThresholdUsed   float64
	Label           triage.Label
	Score           float64
	TemplateCode    triage.TemplateCode
	TextLengthChars int
	LatencyMs       int64
	Language        triage.Language
}

// Validate checks the event against the constraints of the classification table.
func (e Event) Validate() error {
	switch {
	case e.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	case math.IsNaN(e.ThresholdUsed) || e.ThresholdUsed <= 0 || e.ThresholdUsed > 1:
		return fmt.Errorf("%w: threshold %g outside (0, 1]", ErrInvalidEvent, e.ThresholdUsed)
	case math.IsNaN(e.Score) || e.Score < 0 || e.Score > 1:
		return fmt.Errorf("%w: score %g outside [0, 1]", ErrInvalidEvent, e.Score)
	case !e.Label.Valid():
		return fmt.Errorf("%w: label %q", ErrInvalidEvent, e.Label)
	case !e.TemplateCode.Valid():
		return fmt.Errorf("%w: template_code %q", ErrInvalidEvent, e.TemplateCode)
	case !e.Language.Valid():
		return fmt.Errorf("%w: language %q", ErrInvalidEvent, e.Language)
	case e.TextLengthChars < 0:
		return fmt.Errorf("%w: negative text_length_chars", ErrInvalidEvent)
	case e.LatencyMs < 0:
		return fmt.Errorf("%w: negative latency_ms", ErrInvalidEvent)
	}
	return nil
}

// PersistedScore is the score as stored: rounded to four decimals.
func (e Event) PersistedScore() float64 {
	return math.Round(e.Score*1e4) / 1e4
}
