package classifications

import (
	"context"

	"github.com/JaimeStill/autou/internal/scoring"
)

// System defines the public contract for classification operations.
type System interface {
	Handler(limits Limits) *Handler

	// Model returns the metadata of the deployed model.
	Model() scoring.Model

	// ClassifyOne classifies a single email text.
	ClassifyOne(ctx context.Context, text string) (*Result, error)

	// ClassifyBatch classifies texts with a single scorer call. Results are in input order.
	ClassifyBatch(ctx context.Context, texts []string) ([]Result, error)
}
