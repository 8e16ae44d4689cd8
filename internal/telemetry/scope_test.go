package telemetry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/autou/internal/telemetry"
)

type fakeSession struct {
	commits   int
	rollbacks int
	commitErr error
	recorded  []telemetry.Event
}

func (s *fakeSession) Record(_ context.Context, e telemetry.Event) telemetry.Outcome {
	s.recorded = append(s.recorded, e)
	return telemetry.Recorded()
}

func (s *fakeSession) Commit() error {
	s.commits++
	return s.commitErr
}

func (s *fakeSession) Rollback() error {
	s.rollbacks++
	return nil
}

type fakeRecorder struct {
	session  *fakeSession
	beginErr error
}

func (r *fakeRecorder) Begin(context.Context) (telemetry.Session, error) {
	if r.beginErr != nil {
		return nil, r.beginErr
	}
	return r.session, nil
}

func (r *fakeRecorder) Exists(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func TestScopeCommitsOnSuccess(t *testing.T) {
	s := &fakeSession{}
	rec := &fakeRecorder{session: s}

	err := telemetry.Scope(context.Background(), rec, func(sess telemetry.Session) error {
		sess.Record(context.Background(), validEvent())
		return nil
	})

	if err != nil {
		t.Fatalf("Scope: %v", err)
	}
	if s.commits != 1 || s.rollbacks != 0 {
		t.Errorf("commits=%d rollbacks=%d, want 1/0", s.commits, s.rollbacks)
	}
	if len(s.recorded) != 1 {
		t.Errorf("recorded %d events, want 1", len(s.recorded))
	}
}

func TestScopeRollsBackOnError(t *testing.T) {
	s := &fakeSession{}
	rec := &fakeRecorder{session: s}
	boom := errors.New("boom")

	err := telemetry.Scope(context.Background(), rec, func(telemetry.Session) error {
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if s.commits != 0 || s.rollbacks != 1 {
		t.Errorf("commits=%d rollbacks=%d, want 0/1", s.commits, s.rollbacks)
	}
}

func TestScopeRollsBackOnPanic(t *testing.T) {
	s := &fakeSession{}
	rec := &fakeRecorder{session: s}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		telemetry.Scope(context.Background(), rec, func(telemetry.Session) error {
			panic("kaboom")
		})
	}()

	if s.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", s.rollbacks)
	}
}

func TestScopeBeginFailure(t *testing.T) {
	beginErr := errors.New("db down")
	rec := &fakeRecorder{beginErr: beginErr}
	called := false

	err := telemetry.Scope(context.Background(), rec, func(telemetry.Session) error {
		called = true
		return nil
	})

	if !errors.Is(err, beginErr) {
		t.Fatalf("err = %v, want begin error", err)
	}
	if called {
		t.Error("fn called without a session")
	}
}

func TestScopeCommitFailureDoesNotRollBack(t *testing.T) {
	commitErr := errors.New("commit failed")
	s := &fakeSession{commitErr: commitErr}
	rec := &fakeRecorder{session: s}

	err := telemetry.Scope(context.Background(), rec, func(telemetry.Session) error { return nil })

	if !errors.Is(err, commitErr) {
		t.Fatalf("err = %v, want commit error", err)
	}
	if s.rollbacks != 0 {
		t.Errorf("rollbacks = %d, want 0", s.rollbacks)
	}
}

func TestDisabledRecorder(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := telemetry.New(nil, true, logger)
	ctx := context.Background()

	err := telemetry.Scope(ctx, rec, func(s telemetry.Session) error {
		if o := s.Record(ctx, validEvent()); o.Status != telemetry.OutcomeSkipped {
			t.Errorf("outcome = %+v, want skipped", o)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope: %v", err)
	}

	if _, err := rec.Exists(ctx, uuid.New()); !errors.Is(err, telemetry.ErrDisabled) {
		t.Errorf("Exists err = %v, want ErrDisabled", err)
	}
}
