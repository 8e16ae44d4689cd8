package api

import (
	"github.com/JaimeStill/autou/internal/classifications"
	"github.com/JaimeStill/autou/internal/feedback"
	"github.com/JaimeStill/autou/internal/telemetry"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifications classifications.System
	Feedback        feedback.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	recorder := telemetry.New(
		runtime.DB(),
		runtime.Telemetry,
		runtime.Logger,
	)

	classificationsSystem := classifications.New(
		runtime.Scorer,
		runtime.Model,
		recorder,
		runtime.Metrics,
		runtime.Logger,
	)

	feedbackSystem := feedback.New(
		runtime.DB(),
		runtime.Metrics,
		runtime.Pagination,
		runtime.Logger,
	)

	return &Domain{
		Classifications: classificationsSystem,
		Feedback:        feedbackSystem,
	}
}
