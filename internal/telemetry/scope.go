package telemetry

import (
	"context"
	"errors"
)

// Scope begins a session, runs fn, and commits when fn returns nil.
// The session is rolled back on every other exit path, including a panic in fn.
func Scope(ctx context.Context, rec Recorder, fn func(Session) error) (err error) {
	s, err := rec.Begin(ctx)
	if err != nil {
		return err
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := s.Rollback(); rbErr != nil && err != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if err := fn(s); err != nil {
		return err
	}

	// a failed commit also ends the transaction
	finished = true
	return s.Commit()
}
