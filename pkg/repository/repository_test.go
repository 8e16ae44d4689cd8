package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/autou/pkg/repository"
)

var errNotFound = errors.New("not found")

func TestMapError(t *testing.T) {
	other := errors.New("boom")
	unique := &pgconn.PgError{Code: repository.CodeUniqueViolation}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"pg error passthrough", unique, unique},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSQLState(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		fk      bool
		unique  bool
		wantSQL string
	}{
		{"wrapped foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), true, false, "23503"},
		{"unique", &pgconn.PgError{Code: "23505"}, false, true, "23505"},
		{"plain error", errors.New("23503"), false, false, ""},
		{"nil", nil, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.SQLState(tt.err); got != tt.wantSQL {
				t.Errorf("SQLState = %q, want %q", got, tt.wantSQL)
			}
			if got := repository.IsForeignKeyViolation(tt.err); got != tt.fk {
				t.Errorf("IsForeignKeyViolation = %v, want %v", got, tt.fk)
			}
			if got := repository.IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation = %v, want %v", got, tt.unique)
			}
		})
	}
}

type execLog struct {
	stmts  []string
	failOn string
}

func (e *execLog) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	e.stmts = append(e.stmts, query)
	if query == e.failOn {
		return nil, errors.New("exec failed")
	}
	return nil, nil
}

func TestWithSavepoint(t *testing.T) {
	ctx := context.Background()
	fnErr := errors.New("insert failed")

	tests := []struct {
		name      string
		failOn    string
		fnErr     error
		wantStmts []string
		wantErr   error
	}{
		{
			name:      "success releases",
			wantStmts: []string{"SAVEPOINT sp", "RELEASE SAVEPOINT sp"},
		},
		{
			name:      "failure rolls back to savepoint",
			fnErr:     fnErr,
			wantStmts: []string{"SAVEPOINT sp", "ROLLBACK TO SAVEPOINT sp"},
			wantErr:   fnErr,
		},
		{
			name:      "failed rollback keeps original error",
			failOn:    "ROLLBACK TO SAVEPOINT sp",
			fnErr:     fnErr,
			wantStmts: []string{"SAVEPOINT sp", "ROLLBACK TO SAVEPOINT sp"},
			wantErr:   fnErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &execLog{failOn: tt.failOn}
			err := repository.WithSavepoint(ctx, log, "sp", func() error { return tt.fnErr })

			if tt.wantErr == nil && err != nil {
				t.Fatalf("err = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(log.stmts, tt.wantStmts) {
				t.Errorf("statements = %v, want %v", log.stmts, tt.wantStmts)
			}
		})
	}

	t.Run("savepoint failure skips fn", func(t *testing.T) {
		log := &execLog{failOn: "SAVEPOINT sp"}
		called := false
		err := repository.WithSavepoint(ctx, log, "sp", func() error {
			called = true
			return nil
		})
		if err == nil || called {
			t.Errorf("err = %v, called = %v", err, called)
		}
	})
}
