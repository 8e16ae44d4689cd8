package feedback

import (
	"github.com/google/uuid"
)

// SubmitRequest is the body of POST /feedback.
type SubmitRequest struct {
	ClassificationID string      `json:"classification_id" validate:"required,uuid"`
	Helpful          *bool       `json:"helpful" validate:"required"`
	ReasonCode       *ReasonCode `json:"reason_code" validate:"omitnil,oneof=WRONG_INTENT TONE MISSING_INFO LOW_CONF OTHER"`
}

// Command converts a validated request into a SubmitCommand.
func (r SubmitRequest) Command() SubmitCommand {
	return SubmitCommand{
		ClassificationID: uuid.MustParse(r.ClassificationID),
		Helpful:          *r.Helpful,
		ReasonCode:       r.ReasonCode,
	}
}
