package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/pkg/lifecycle"
)

const predictPath = "/predict"

type predictRequest struct {
	Texts []string `json:"texts"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Remote scores texts by calling the inference server's /predict endpoint.
// Large inputs are split into chunks sent concurrently and reassembled in order.
// Consecutive failures open a circuit breaker, after which calls fail fast with
// ErrNotReady until the open timeout elapses.
type Remote struct {
	client         *http.Client
	endpoint       string
	timeout        time.Duration
	chunkSize      int
	maxConcurrency int
	breaker        *gobreaker.CircuitBreaker
	logger         *slog.Logger
	warm           atomic.Bool
}

// NewRemote creates a Remote scorer from the scorer config.
func NewRemote(cfg *config.ScorerConfig, logger *slog.Logger) *Remote {
	logger = logger.With("system", "scorer")
	threshold := uint32(cfg.FailureThreshold)

	settings := gobreaker.Settings{
		Name:        "scorer",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Remote{
		client:         &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoint:       strings.TrimSuffix(cfg.BaseURL, "/") + predictPath,
		timeout:        cfg.TimeoutDuration(),
		chunkSize:      cfg.ChunkSize,
		maxConcurrency: cfg.MaxConcurrency,
		breaker:        gobreaker.NewCircuitBreaker(settings),
		logger:         logger,
	}
}

// Score returns one probability per text, in input order.
func (r *Remote) Score(ctx context.Context, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	first := 0
	// a half-open breaker admits a single request: send the first
	// chunk alone so the rest fan out once it closes
	if r.breaker.State() == gobreaker.StateHalfOpen {
		end := min(r.chunkSize, len(texts))
		probs, err := r.execute(ctx, texts[:end])
		if err != nil {
			return nil, err
		}
		copy(out[:end], probs)
		first = end
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for start := first; start < len(texts); start += r.chunkSize {
		end := min(start+r.chunkSize, len(texts))

		g.Go(func() error {
			probs, err := r.execute(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], probs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.warm.Store(true)
	return out, nil
}

// Warmup issues a single-text request so the inference server loads its model
// before the first real call.
func (r *Remote) Warmup(ctx context.Context) error {
	_, err := r.Score(ctx, []string{"warmup"})
	return err
}

// Ready reports whether a call has succeeded and the breaker is not open.
func (r *Remote) Ready() bool {
	return r.warm.Load() && r.breaker.State() != gobreaker.StateOpen
}

// Start registers a warmup startup hook and makes the coordinator's readiness
// depend on Ready. A failed warmup is logged and the service keeps starting;
// Score retries on the next request.
func (r *Remote) Start(lc *lifecycle.Coordinator) {
	lc.RequireReady("scorer", r)
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), r.timeout)
		defer cancel()

		if err := r.Warmup(ctx); err != nil {
			r.logger.Warn("scorer warmup failed", "endpoint", r.endpoint, "error", err)
			return
		}
		r.logger.Info("scorer warmed up", "endpoint", r.endpoint)
	})
}

func (r *Remote) execute(ctx context.Context, texts []string) ([]float64, error) {
	result, err := r.breaker.Execute(func() (any, error) {
		return r.predict(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
		}
		return nil, err
	}
	return result.([]float64), nil
}

func (r *Remote) predict(ctx context.Context, texts []string) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict: inference server returned %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(pr.Probabilities) != len(texts) {
		return nil, fmt.Errorf(
			"%w: got %d probabilities for %d texts",
			ErrInvalidResponse, len(pr.Probabilities), len(texts),
		)
	}
	for i, p := range pr.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: probability %d out of range: %g", ErrInvalidResponse, i, p)
		}
	}

	return pr.Probabilities, nil
}
