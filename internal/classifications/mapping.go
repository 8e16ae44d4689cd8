package classifications

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/triage"
	"github.com/JaimeStill/autou/pkg/validation"
)

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Text string `json:"text" validate:"nonblank,maxrunes,nocontrol"`
}

// BatchRequest is the body of POST /classify_batch.
type BatchRequest struct {
	Texts []string `json:"texts" validate:"batchsize,dive,nonblank,maxrunes,nocontrol"`
}

// ClassificationResponse is one classification as returned to clients.
type ClassificationResponse struct {
	ClassificationID uuid.UUID    `json:"classification_id"`
	Label            triage.Label `json:"label"`
	ScoreProdutivo   float64      `json:"score_produtivo"`
	ThresholdUsed    float64      `json:"threshold_used"`
	Suggestion       string       `json:"suggestion"`
}

// BatchResponse wraps batch results in input order.
type BatchResponse struct {
	Results []ClassificationResponse `json:"results"`
}

// HealthResponse reports the deployed model.
type HealthResponse struct {
	Status         string  `json:"status"`
	ModelVersion   string  `json:"model_version"`
	EmbeddingModel string  `json:"embedding_model"`
	Threshold      float64 `json:"threshold"`
}

// ToResponse converts a Result, rounding the score to three decimals.
func ToResponse(r Result) ClassificationResponse {
	return ClassificationResponse{
		ClassificationID: r.ID,
		Label:            r.Label,
		ScoreProdutivo:   math.Round(r.Score*1000) / 1000,
		ThresholdUsed:    r.ThresholdUsed,
		Suggestion:       r.Suggestion,
	}
}

// HasControlChars reports whether s contains a C0 control character other
// than tab, line feed, vertical tab, form feed, or carriage return.
func HasControlChars(s string) bool {
	for _, r := range s {
		if r < '\t' || (r > '\r' && r < ' ') {
			return true
		}
	}
	return false
}

func newValidator(limits Limits) (*validator.Validate, validation.Messages) {
	v := validation.New()

	v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("maxrunes", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= limits.MaxTextChars
	})
	v.RegisterValidation("nocontrol", func(fl validator.FieldLevel) bool {
		return !HasControlChars(fl.Field().String())
	})
	v.RegisterValidation("batchsize", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		n := fl.Field().Len()
		return n >= 1 && n <= limits.MaxBatchItems
	})

	messages := validation.Messages{
		"nonblank":  "cannot be empty",
		"maxrunes":  fmt.Sprintf("too long (>%d chars)", limits.MaxTextChars),
		"nocontrol": "contains invalid control characters",
		"batchsize": fmt.Sprintf("must contain between 1 and %d items", limits.MaxBatchItems),
	}

	return v, messages
}
