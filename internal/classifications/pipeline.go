package classifications

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/metrics"
	"github.com/JaimeStill/autou/internal/scoring"
	"github.com/JaimeStill/autou/internal/telemetry"
	"github.com/JaimeStill/autou/internal/triage"
)

type pipeline struct {
	scorer   scoring.Scorer
	model    scoring.Model
	recorder telemetry.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates the classification pipeline implementing the System interface.
// The model is copied; metrics may be nil.
func New(
	scorer scoring.Scorer,
	model *scoring.Model,
	recorder telemetry.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) System {
	return &pipeline{
		scorer:   scorer,
		model:    *model,
		recorder: recorder,
		metrics:  m,
		logger:   logger.With("system", "classifications"),
	}
}

func (r *pipeline) Handler(limits Limits) *Handler {
	return NewHandler(r, r.logger, limits)
}

func (r *pipeline) Model() scoring.Model {
	return r.model
}

func (r *pipeline) ClassifyOne(ctx context.Context, text string) (*Result, error) {
	start := time.Now()

	probs, err := r.score(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	result, event := r.decide(text, probs[0], start)
	r.record(ctx, []telemetry.Event{event})

	return &result, nil
}

// ClassifyBatch measures latency from the start of the batch for every item,
// so each event reports the batch's elapsed time at that item rather than the
// item's own cost.
func (r *pipeline) ClassifyBatch(ctx context.Context, texts []string) ([]Result, error) {
	start := time.Now()

	probs, err := r.score(ctx, texts)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(texts))
	events := make([]telemetry.Event, len(texts))
	for i, text := range texts {
		results[i], events[i] = r.decide(text, probs[i], start)
	}

	r.record(ctx, events)

	return results, nil
}

func (r *pipeline) score(ctx context.Context, texts []string) ([]float64, error) {
	start := time.Now()
	probs, err := r.scorer.Score(ctx, texts)
	r.metrics.ObserveScore(time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelNotReady, err)
	}
	if len(probs) != len(texts) {
		return nil, fmt.Errorf("%w: scorer returned %d probabilities for %d texts",
			ErrModelNotReady, len(probs), len(texts))
	}
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: probability %d out of range: %g", ErrModelNotReady, i, p)
		}
	}

	return probs, nil
}

func (r *pipeline) decide(text string, p float64, start time.Time) (Result, telemetry.Event) {
	label := triage.Decide(p, r.model.Threshold)
	reply, code := triage.Suggest(text, label)
	id := uuid.New()
	latency := time.Since(start).Milliseconds()
	lang := triage.NormalizeLanguage(triage.DetectLanguage(text))

	r.metrics.ObserveClassification(string(label), string(code))
	r.logger.Debug("email classified",
		"classification_id", id,
		"label", label,
		"template", code,
		"score", p,
	)

	result := Result{
		ID:            id,
		Label:         label,
		Score:         p,
		Suggestion:    reply,
		TemplateCode:  code,
		ThresholdUsed: r.model.Threshold,
	}

	event := telemetry.Event{
		ID:              id,
		Timestamp:       time.Now().UTC(),
		ModelVersion:    r.model.Version,
		EmbeddingModel:  r.model.EmbeddingModel,
		ThresholdUsed:   r.model.Threshold,
		Label:           label,
		Score:           p,
		TemplateCode:    code,
		TextLengthChars: utf8.RuneCountInString(text),
		LatencyMs:       latency,
		Language:        lang,
	}

	return result, event
}

// record writes events in one telemetry session. Failures, including panics
// from the driver, are logged and counted, never returned.
func (r *pipeline) record(ctx context.Context, events []telemetry.Event) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("telemetry panic", "events", len(events), "panic", p)
			r.observeDiscarded(len(events))
		}
	}()

	outcomes := make([]telemetry.Outcome, 0, len(events))
	err := telemetry.Scope(ctx, r.recorder, func(s telemetry.Session) error {
		for _, e := range events {
			outcomes = append(outcomes, s.Record(ctx, e))
		}
		return nil
	})

	if err != nil {
		r.logger.Warn("telemetry session failed", "events", len(events), "error", err)
		r.observeDiscarded(len(events))
		return
	}

	for _, o := range outcomes {
		r.metrics.ObserveTelemetry(string(o.Status))
	}
}

func (r *pipeline) observeDiscarded(n int) {
	for range n {
		r.metrics.ObserveTelemetry(string(telemetry.OutcomeDiscarded))
	}
}
