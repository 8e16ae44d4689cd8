// Package schematest opens a migrated PostgreSQL database for integration tests.
package schematest

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/autou/internal/schema"
)

// EnvDatabaseURL names the connection string used by integration tests.
const EnvDatabaseURL = "AUTOU_TEST_DATABASE_URL"

// Open connects to the test database, applies migrations, and registers
// cleanup. The test is skipped when EnvDatabaseURL is unset.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	if err := schema.Up(dsn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("ping test database: %v", err)
	}
	return db
}
