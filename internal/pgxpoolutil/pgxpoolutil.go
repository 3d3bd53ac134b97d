// Package pgxpoolutil holds the pgxpool connection and migration plumbing
// shared by ethcore's PostgreSQL-backed stores: building a pool from a DSN
// with connect-time retry, and applying embedded SQL migrations tracked in
// a schema_migrations table. Domain packages layer their own semantics
// (durability settings, retention policy, row shapes) on top of this.
package pgxpoolutil

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// connectRetryDelay is the base delay between pool-connect attempts.
	connectRetryDelay = 500 * time.Millisecond

	// maxConnectRetryDelay caps the exponential backoff between attempts.
	maxConnectRetryDelay = 10 * time.Second
)

// ConnectOptions parameterizes pool construction beyond the bare DSN.
type ConnectOptions struct {
	MaxConns int32
	MinConns int32

	// AfterConnect, when set, is installed as pgxpool.Config.AfterConnect: it
	// runs once on every new physical connection the pool opens, before that
	// connection is handed to any acquirer. Domain packages use this for
	// per-connection session settings (for example forcing synchronous
	// commit on a write-heavy audit sink).
	AfterConnect func(ctx context.Context, conn *pgx.Conn) error

	// MaxAttempts bounds connect retries. Zero means try once, no retry.
	MaxAttempts int
}

// Connect parses dsn, builds a pgxpool.Pool, and pings it to confirm
// liveness, retrying with exponential backoff up to opts.MaxAttempts times.
// Retrying here means a caller that dials at process startup, before its
// database has finished accepting connections, does not have to hand-roll
// its own wait loop.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpoolutil: parse config: %w", err)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		poolCfg.MinConns = opts.MinConns
	}
	if opts.AfterConnect != nil {
		poolCfg.AfterConnect = opts.AfterConnect
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := connectRetryDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxConnectRetryDelay {
			delay = maxConnectRetryDelay
		}
	}
	return nil, fmt.Errorf("pgxpoolutil: connect failed after %d attempt(s): %w", attempts, lastErr)
}

// RunMigrations reads *.sql files out of dir in fsys, applies each one not
// already recorded in schema_migrations in lexicographic order, and records
// it inside the same transaction that ran it.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) error {
	const createTracker = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`
	if _, err := pool.Exec(ctx, createTracker); err != nil {
		return fmt.Errorf("pgxpoolutil: create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("pgxpoolutil: read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)",
			entry.Name(),
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("pgxpoolutil: check migration %s: %w", entry.Name(), err)
		}
		if exists {
			continue
		}

		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return fmt.Errorf("pgxpoolutil: read migration %s: %w", entry.Name(), err)
		}

		if err := applyOne(ctx, pool, entry.Name(), string(data)); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, filename, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgxpoolutil: begin tx for %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, sql); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("pgxpoolutil: exec migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (filename) VALUES ($1)",
		filename,
	); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("pgxpoolutil: record migration %s: %w", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgxpoolutil: commit migration %s: %w", filename, err)
	}
	return nil
}
