package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/pkg/pagination"
)

// System defines the public contract for feedback operations.
type System interface {
	Handler() *Handler

	// Submit creates or replaces the feedback for a classification.
	Submit(ctx context.Context, cmd SubmitCommand) error

	// Find returns the stored feedback for a classification.
	Find(ctx context.Context, classificationID uuid.UUID) (*Feedback, error)

	// List returns a page of feedback matching filters, newest first by default.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Feedback], error)
}
