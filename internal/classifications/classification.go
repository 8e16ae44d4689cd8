// Package classifications runs the email triage pipeline: score the text,
// decide the label, pick a suggested reply, and record a telemetry event.
package classifications

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/triage"
)

// Result is the decision returned for one email.
type Result struct {
	ID            uuid.UUID
	Label         triage.Label
	Score         float64
	Suggestion    string
	TemplateCode  triage.TemplateCode
	ThresholdUsed float64
}

// Limits bounds the accepted request sizes.
type Limits struct {
	MaxTextChars  int
	MaxBatchItems int
}
