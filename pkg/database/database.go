// Package database opens the PostgreSQL pool (pgx through database/sql) and
// ties its first ping and final close to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/autou/pkg/lifecycle"
)

const pingInterval = 500 * time.Millisecond

// System owns the connection pool.
type System interface {
	// Connection returns the pool. It is usable before Start; connections are
	// established lazily.
	Connection() *sql.DB
	// Start registers the startup ping and shutdown close.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether a startup ping has succeeded.
	Ready() bool
}

type database struct {
	pool        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New configures a pool from cfg without connecting.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		pool:        pool,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.pool
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		attempts, err := d.ping(ctx)
		if err != nil {
			// a failed ping leaves the service up with telemetry degraded
			d.logger.Error("database unreachable", "attempts", attempts, "error", err)
			return
		}

		d.ready.Store(true)
		d.logger.Info("database connected", "attempts", attempts)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.pool.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database closed")
	})

	return nil
}

// ping retries every pingInterval until the pool answers or ctx expires.
func (d *database) ping(ctx context.Context) (int, error) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := d.pool.PingContext(ctx)
		if err == nil {
			return attempt, nil
		}

		select {
		case <-ctx.Done():
			return attempt, err
		case <-ticker.C:
		}
	}
}
