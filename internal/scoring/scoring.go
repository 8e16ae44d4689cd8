// Package scoring turns email text into the probability that it is Produtivo.
//
// The embedding model and calibrated classifier run in a separate inference
// server; Remote is the client for it. Model carries the metadata published
// alongside the trained artifacts (decision threshold, embedding model id,
// version) and is loaded once at startup.
package scoring

import "context"

// Scorer produces one Produtivo probability in [0, 1] per input text, in input order.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, texts []string) ([]float64, error)
}
