package feedback_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/feedback"
	"github.com/JaimeStill/autou/internal/schema/schematest"
	"github.com/JaimeStill/autou/internal/telemetry"
	"github.com/JaimeStill/autou/internal/triage"
	"github.com/JaimeStill/autou/pkg/pagination"
	"github.com/JaimeStill/autou/pkg/query"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var testPaging = pagination.Config{DefaultPageSize: 25, MaxPageSize: 200}

func TestSubmitWithoutDatabase(t *testing.T) {
	sys := feedback.New(nil, nil, testPaging, discard)

	err := sys.Submit(context.Background(), feedback.SubmitCommand{
		ClassificationID: uuid.New(),
		Helpful:          true,
	})
	if !errors.Is(err, feedback.ErrMisconfigured) {
		t.Fatalf("err = %v, want ErrMisconfigured", err)
	}

	if _, err := sys.Find(context.Background(), uuid.New()); !errors.Is(err, feedback.ErrMisconfigured) {
		t.Fatalf("Find err = %v, want ErrMisconfigured", err)
	}

	if _, err := sys.List(context.Background(), pagination.PageRequest{}, feedback.Filters{}); !errors.Is(err, feedback.ErrMisconfigured) {
		t.Fatalf("List err = %v, want ErrMisconfigured", err)
	}
}

func seedClassification(t *testing.T, rec telemetry.Recorder) uuid.UUID {
	t.Helper()
	return seedLabeled(t, rec, triage.Produtivo)
}

func seedLabeled(t *testing.T, rec telemetry.Recorder, label triage.Label) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	e := telemetry.Event{
		ID:              uuid.New(),
		Timestamp:       time.Now().UTC(),
		ModelVersion:    "test",
		EmbeddingModel:  "test-embedding",
		ThresholdUsed:   0.5,
		Label:           label,
		Score:           0.75,
		TemplateCode:    triage.TemplateGeneric,
		TextLengthChars: 12,
		LatencyMs:       3,
		Language:        triage.LanguagePT,
	}

	var outcome telemetry.Outcome
	err := telemetry.Scope(ctx, rec, func(s telemetry.Session) error {
		outcome = s.Record(ctx, e)
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if outcome.Status != telemetry.OutcomeRecorded {
		t.Fatalf("seed outcome = %+v", outcome)
	}
	return e.ID
}

func TestSubmitUpsert(t *testing.T) {
	db := schematest.Open(t)
	ctx := context.Background()
	sys := feedback.New(db, nil, testPaging, discard)
	id := seedClassification(t, telemetry.New(db, true, discard))

	tone := feedback.ReasonTone
	if err := sys.Submit(ctx, feedback.SubmitCommand{ClassificationID: id, Helpful: false, ReasonCode: &tone}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	first, err := sys.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if first.Helpful || first.ReasonCode == nil || *first.ReasonCode != feedback.ReasonTone {
		t.Errorf("first = %+v", first)
	}

	if err := sys.Submit(ctx, feedback.SubmitCommand{ClassificationID: id, Helpful: true}); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	second, err := sys.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("feedback id changed: %v -> %v", first.ID, second.ID)
	}
	if !second.Helpful || second.ReasonCode != nil {
		t.Errorf("second = %+v, want helpful with no reason", second)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback WHERE classification_id = $1", id).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestSubmitUnknownClassification(t *testing.T) {
	db := schematest.Open(t)
	sys := feedback.New(db, nil, testPaging, discard)

	err := sys.Submit(context.Background(), feedback.SubmitCommand{
		ClassificationID: uuid.New(),
		Helpful:          true,
	})
	if !errors.Is(err, feedback.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitConcurrent(t *testing.T) {
	db := schematest.Open(t)
	ctx := context.Background()
	sys := feedback.New(db, nil, testPaging, discard)
	id := seedClassification(t, telemetry.New(db, true, discard))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Go(func() {
			errs[i] = sys.Submit(ctx, feedback.SubmitCommand{ClassificationID: id, Helpful: i == 0})
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("submit %d: %v", i, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback WHERE classification_id = $1", id).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestList(t *testing.T) {
	db := schematest.Open(t)
	ctx := context.Background()
	sys := feedback.New(db, nil, testPaging, discard)
	rec := telemetry.New(db, true, discard)

	missing := feedback.ReasonMissingInfo
	seeded := map[uuid.UUID]bool{}
	for _, label := range []triage.Label{triage.Improdutivo, triage.Improdutivo, triage.Produtivo} {
		id := seedLabeled(t, rec, label)
		if err := sys.Submit(ctx, feedback.SubmitCommand{ClassificationID: id, Helpful: false, ReasonCode: &missing}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		seeded[id] = label == triage.Improdutivo
	}

	improdutivo := triage.Improdutivo
	notHelpful := false
	result, err := sys.List(ctx,
		pagination.PageRequest{Page: 1, PageSize: testPaging.MaxPageSize},
		feedback.Filters{Helpful: &notHelpful, ReasonCode: &missing, Label: &improdutivo},
	)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total < 2 {
		t.Fatalf("total = %d, want at least 2", result.Total)
	}

	found := 0
	for i, f := range result.Data {
		if f.Label != triage.Improdutivo || f.Helpful || f.ReasonCode == nil || *f.ReasonCode != missing {
			t.Errorf("row %d does not match filters: %+v", i, f)
		}
		if i > 0 && f.Timestamp.After(result.Data[i-1].Timestamp) {
			t.Errorf("row %d is newer than row %d", i, i-1)
		}
		if seeded[f.ClassificationID] {
			found++
		}
	}
	if found != 2 && result.Total <= testPaging.MaxPageSize {
		t.Errorf("found %d seeded rows, want 2", found)
	}

	_, err = sys.List(ctx,
		pagination.PageRequest{Sort: []query.SortField{{Field: "password"}}},
		feedback.Filters{},
	)
	if !errors.Is(err, feedback.ErrInvalidQuery) {
		t.Errorf("unknown sort err = %v, want ErrInvalidQuery", err)
	}
}
