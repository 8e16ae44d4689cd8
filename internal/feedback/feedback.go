// Package feedback stores user verdicts on past classifications. Each
// classification has at most one feedback record; later submissions
// overwrite helpful and reason_code in place.
package feedback

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/triage"
)

// ReasonCode explains why a suggestion was or was not helpful.
type ReasonCode string

const (
	ReasonWrongIntent ReasonCode = "WRONG_INTENT"
	ReasonTone        ReasonCode = "TONE"
	ReasonMissingInfo ReasonCode = "MISSING_INFO"
	ReasonLowConf     ReasonCode = "LOW_CONF"
	ReasonOther       ReasonCode = "OTHER"
)

// Valid reports whether c is a recognized reason code.
func (c ReasonCode) Valid() bool {
	switch c {
	case ReasonWrongIntent, ReasonTone, ReasonMissingInfo, ReasonLowConf, ReasonOther:
		return true
	}
	return false
}

// Feedback is the stored verdict for one classification, together with
// the label and template that were judged.
type Feedback struct {
	ID               uuid.UUID           `json:"feedback_id"`
	Timestamp        time.Time           `json:"ts_utc"`
	ClassificationID uuid.UUID           `json:"classification_id"`
	Helpful          bool                `json:"helpful"`
	ReasonCode       *ReasonCode         `json:"reason_code,omitempty"`
	Label            triage.Label        `json:"label"`
	TemplateCode     triage.TemplateCode `json:"template_code"`
}

// SubmitCommand carries one feedback submission.
type SubmitCommand struct {
	ClassificationID uuid.UUID
	Helpful          bool
	ReasonCode       *ReasonCode
}

// Filters narrows a feedback listing. Nil fields match everything.
type Filters struct {
	Helpful    *bool
	ReasonCode *ReasonCode
	Label      *triage.Label
}

// FiltersFromQuery reads helpful, reason_code, and label from URL query values.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if v := values.Get("helpful"); v != "" {
		helpful, err := strconv.ParseBool(v)
		if err != nil {
			return Filters{}, fmt.Errorf("%w: helpful must be a boolean", ErrInvalidQuery)
		}
		f.Helpful = &helpful
	}

	if v := values.Get("reason_code"); v != "" {
		code := ReasonCode(v)
		if !code.Valid() {
			return Filters{}, fmt.Errorf("%w: unknown reason_code %q", ErrInvalidQuery, v)
		}
		f.ReasonCode = &code
	}

	if v := values.Get("label"); v != "" {
		label := triage.Label(v)
		if !label.Valid() {
			return Filters{}, fmt.Errorf("%w: unknown label %q", ErrInvalidQuery, v)
		}
		f.Label = &label
	}

	return f, nil
}
