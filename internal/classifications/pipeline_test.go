package classifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/autou/internal/classifications"
	"github.com/JaimeStill/autou/internal/metrics"
	"github.com/JaimeStill/autou/internal/scoring"
	"github.com/JaimeStill/autou/internal/telemetry"
	"github.com/JaimeStill/autou/internal/triage"
)

type fakeScorer struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	fn    func(texts []string) ([]float64, error)
}

func (s *fakeScorer) Score(_ context.Context, texts []string) ([]float64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.fn(texts)
}

func constant(p float64) func([]string) ([]float64, error) {
	return func(texts []string) ([]float64, error) {
		out := make([]float64, len(texts))
		for i := range out {
			out[i] = p
		}
		return out, nil
	}
}

type fakeSession struct {
	rec *fakeRecorder
}

func (s *fakeSession) Record(_ context.Context, e telemetry.Event) telemetry.Outcome {
	if s.rec.recordFn != nil {
		if o := s.rec.recordFn(e); o.Status != telemetry.OutcomeRecorded {
			return o
		}
	}
	s.rec.events = append(s.rec.events, e)
	return telemetry.Recorded()
}

func (s *fakeSession) Commit() error {
	s.rec.commits++
	return s.rec.commitErr
}

func (s *fakeSession) Rollback() error {
	s.rec.rollbacks++
	return nil
}

type fakeRecorder struct {
	sessions  int
	commits   int
	rollbacks int
	events    []telemetry.Event
	beginErr  error
	commitErr error
	recordFn  func(telemetry.Event) telemetry.Outcome
	panicOn   bool
}

func (r *fakeRecorder) Begin(context.Context) (telemetry.Session, error) {
	if r.panicOn {
		panic("driver exploded")
	}
	if r.beginErr != nil {
		return nil, r.beginErr
	}
	r.sessions++
	return &fakeSession{rec: r}, nil
}

func (r *fakeRecorder) Exists(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func testModel() *scoring.Model {
	return &scoring.Model{
		Version:        "2025-01-15T10:00:00",
		EmbeddingModel: scoring.DefaultEmbeddingModel,
		Threshold:      0.5,
	}
}

func newPipeline(s scoring.Scorer, rec telemetry.Recorder, m *metrics.Metrics) classifications.System {
	return classifications.New(s, testModel(), rec, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassifyOne(t *testing.T) {
	t.Run("produtivo with status template", func(t *testing.T) {
		rec := &fakeRecorder{}
		sys := newPipeline(&fakeScorer{fn: constant(0.91)}, rec, nil)

		got, err := sys.ClassifyOne(context.Background(), "Qual a situação do chamado 12345?")
		if err != nil {
			t.Fatalf("ClassifyOne: %v", err)
		}

		if got.Label != triage.Produtivo {
			t.Errorf("label = %s, want Produtivo", got.Label)
		}
		if got.TemplateCode != triage.TemplateStatus {
			t.Errorf("template = %s, want %s", got.TemplateCode, triage.TemplateStatus)
		}
		if !strings.Contains(got.Suggestion, "12345") {
			t.Errorf("suggestion %q does not mention ticket", got.Suggestion)
		}
		if got.ThresholdUsed != 0.5 {
			t.Errorf("threshold = %v, want 0.5", got.ThresholdUsed)
		}
		if got.ID == uuid.Nil {
			t.Error("classification id is nil")
		}

		if len(rec.events) != 1 {
			t.Fatalf("events = %d, want 1", len(rec.events))
		}
		e := rec.events[0]
		if e.ID != got.ID {
			t.Errorf("event id = %v, want %v", e.ID, got.ID)
		}
		if e.Language != triage.LanguagePT {
			t.Errorf("language = %s, want pt", e.Language)
		}
		if e.TextLengthChars != len([]rune("Qual a situação do chamado 12345?")) {
			t.Errorf("text length = %d", e.TextLengthChars)
		}
		if e.ModelVersion != "2025-01-15T10:00:00" {
			t.Errorf("model version = %q", e.ModelVersion)
		}
		if rec.commits != 1 {
			t.Errorf("commits = %d, want 1", rec.commits)
		}
	})

	t.Run("score equal to threshold is produtivo", func(t *testing.T) {
		sys := newPipeline(&fakeScorer{fn: constant(0.5)}, &fakeRecorder{}, nil)

		got, err := sys.ClassifyOne(context.Background(), "Preciso de ajuda")
		if err != nil {
			t.Fatalf("ClassifyOne: %v", err)
		}
		if got.Label != triage.Produtivo {
			t.Errorf("label = %s, want Produtivo", got.Label)
		}
	})

	t.Run("improdutivo out of office", func(t *testing.T) {
		sys := newPipeline(&fakeScorer{fn: constant(0.1)}, &fakeRecorder{}, nil)

		got, err := sys.ClassifyOne(context.Background(), "Estou de férias até segunda.")
		if err != nil {
			t.Fatalf("ClassifyOne: %v", err)
		}
		if got.Label != triage.Improdutivo {
			t.Errorf("label = %s, want Improdutivo", got.Label)
		}
		if got.TemplateCode != triage.TemplateOOO {
			t.Errorf("template = %s, want %s", got.TemplateCode, triage.TemplateOOO)
		}
	})

	t.Run("scorer failure returns model not ready", func(t *testing.T) {
		rec := &fakeRecorder{}
		sys := newPipeline(&fakeScorer{fn: func([]string) ([]float64, error) {
			return nil, errors.New("connection refused")
		}}, rec, nil)

		_, err := sys.ClassifyOne(context.Background(), "hello")
		if !errors.Is(err, classifications.ErrModelNotReady) {
			t.Fatalf("err = %v, want ErrModelNotReady", err)
		}
		if rec.sessions != 0 {
			t.Errorf("sessions = %d, want 0", rec.sessions)
		}
	})

	t.Run("out of range probability returns model not ready", func(t *testing.T) {
		sys := newPipeline(&fakeScorer{fn: constant(1.5)}, &fakeRecorder{}, nil)

		_, err := sys.ClassifyOne(context.Background(), "hello")
		if !errors.Is(err, classifications.ErrModelNotReady) {
			t.Fatalf("err = %v, want ErrModelNotReady", err)
		}
	})
}

func TestClassifyOneTelemetryFailures(t *testing.T) {
	tests := []struct {
		name string
		rec  *fakeRecorder
	}{
		{"begin fails", &fakeRecorder{beginErr: errors.New("db down")}},
		{"commit fails", &fakeRecorder{commitErr: errors.New("connection reset")}},
		{"recorder panics", &fakeRecorder{panicOn: true}},
		{"disabled", &fakeRecorder{beginErr: telemetry.ErrDisabled}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newPipeline(&fakeScorer{fn: constant(0.8)}, tt.rec, metrics.New())

			got, err := sys.ClassifyOne(context.Background(), "Please send the invoice")
			if err != nil {
				t.Fatalf("ClassifyOne: %v", err)
			}
			if got.Label != triage.Produtivo {
				t.Errorf("label = %s, want Produtivo", got.Label)
			}
		})
	}
}

func TestClassifyBatch(t *testing.T) {
	t.Run("single scorer call and session in input order", func(t *testing.T) {
		scorer := &fakeScorer{fn: func(texts []string) ([]float64, error) {
			return []float64{0.9, 0.2, 0.7}, nil
		}}
		rec := &fakeRecorder{}
		m := metrics.New()
		sys := newPipeline(scorer, rec, m)

		texts := []string{
			"Preciso de acesso ao sistema",
			"Obrigado pela ajuda!",
			"Segue o anexo solicitado",
		}

		got, err := sys.ClassifyBatch(context.Background(), texts)
		if err != nil {
			t.Fatalf("ClassifyBatch: %v", err)
		}

		if scorer.calls != 1 {
			t.Errorf("scorer calls = %d, want 1", scorer.calls)
		}
		if rec.sessions != 1 || rec.commits != 1 {
			t.Errorf("sessions=%d commits=%d, want 1/1", rec.sessions, rec.commits)
		}

		wantLabels := []triage.Label{triage.Produtivo, triage.Improdutivo, triage.Produtivo}
		if len(got) != len(wantLabels) {
			t.Fatalf("results = %d, want %d", len(got), len(wantLabels))
		}
		for i, want := range wantLabels {
			if got[i].Label != want {
				t.Errorf("results[%d].label = %s, want %s", i, got[i].Label, want)
			}
			if rec.events[i].ID != got[i].ID {
				t.Errorf("events[%d] id mismatch", i)
			}
		}

		wantTemplates := []triage.TemplateCode{triage.TemplateAccess, triage.TemplateGeneric, triage.TemplateAttach}
		for i, want := range wantTemplates {
			if got[i].TemplateCode != want {
				t.Errorf("results[%d].template = %s, want %s", i, got[i].TemplateCode, want)
			}
		}

		expected := `
# HELP autou_classifications_total Classification decisions by label and suggestion template
# TYPE autou_classifications_total counter
autou_classifications_total{label="Improdutivo",template="generic"} 1
autou_classifications_total{label="Produtivo",template="access"} 1
autou_classifications_total{label="Produtivo",template="attach"} 1
`
		if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "autou_classifications_total"); err != nil {
			t.Errorf("classification metrics: %v", err)
		}
	})

	t.Run("latency measured from batch start", func(t *testing.T) {
		rec := &fakeRecorder{}
		sys := newPipeline(&fakeScorer{fn: constant(0.6), delay: 20 * time.Millisecond}, rec, nil)

		if _, err := sys.ClassifyBatch(context.Background(), []string{"a", "b", "c"}); err != nil {
			t.Fatalf("ClassifyBatch: %v", err)
		}

		for i, e := range rec.events {
			if e.LatencyMs < 20 {
				t.Errorf("events[%d].latency = %dms, want >= 20 (includes scorer time)", i, e.LatencyMs)
			}
			if i > 0 && e.LatencyMs < rec.events[i-1].LatencyMs {
				t.Errorf("events[%d].latency decreased: %d < %d", i, e.LatencyMs, rec.events[i-1].LatencyMs)
			}
		}
	})

	t.Run("discarded event does not affect siblings", func(t *testing.T) {
		rec := &fakeRecorder{recordFn: func(e telemetry.Event) telemetry.Outcome {
			if e.TextLengthChars == 3 {
				return telemetry.Discarded("insert failed")
			}
			return telemetry.Recorded()
		}}
		sys := newPipeline(&fakeScorer{fn: constant(0.6)}, rec, nil)

		got, err := sys.ClassifyBatch(context.Background(), []string{"first", "bad", "third"})
		if err != nil {
			t.Fatalf("ClassifyBatch: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("results = %d, want 3", len(got))
		}
		if len(rec.events) != 2 {
			t.Errorf("recorded = %d, want 2", len(rec.events))
		}
		if rec.commits != 1 {
			t.Errorf("commits = %d, want 1", rec.commits)
		}
	})

	t.Run("mismatched probability count returns model not ready", func(t *testing.T) {
		sys := newPipeline(&fakeScorer{fn: func([]string) ([]float64, error) {
			return []float64{0.4}, nil
		}}, &fakeRecorder{}, nil)

		_, err := sys.ClassifyBatch(context.Background(), []string{"a", "b"})
		if !errors.Is(err, classifications.ErrModelNotReady) {
			t.Fatalf("err = %v, want ErrModelNotReady", err)
		}
	})
}
