// Package auditstore persists signed transaction envelopes to PostgreSQL
// as an append-only audit trail: the caller-owned "persisted state" the
// pkg/tx cores deliberately stay free of.
package auditstore

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/ethcore/internal/pgxpoolutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// connectAttempts bounds how many times New retries a failed connection
// before giving up. An audit sink typically starts alongside its database
// in the same deploy, so a handful of backed-off attempts covers the usual
// "database container still warming up" race without hanging forever.
const connectAttempts = 5

// ClientConfig holds connection parameters for the PostgreSQL client.
type ClientConfig struct {
	DSN      string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN builds a PostgreSQL connection string from the given config.
func DSN(cfg ClientConfig) string {
	if strings.TrimSpace(cfg.DSN) != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database, sslMode,
	)
}

// Client wraps a pgxpool.Pool and manages migrations for the audit store.
type Client struct {
	pool *pgxpool.Pool
}

// New creates a new Client with a connection pool configured from cfg. Every
// connection the pool opens is forced to synchronous_commit=on: entries
// recorded through this store back an audit trail, so a write acknowledged
// to a caller must survive a crash of the PostgreSQL server, not just sit
// in its WAL buffer.
func New(ctx context.Context, cfg ClientConfig) (*Client, error) {
	pool, err := pgxpoolutil.Connect(ctx, DSN(cfg), pgxpoolutil.ConnectOptions{
		MaxConns:    int32(cfg.MaxConns),
		MinConns:    int32(cfg.MinConns),
		MaxAttempts: connectAttempts,
		AfterConnect: func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET synchronous_commit = on")
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("auditstore: %w", err)
	}
	return &Client{pool: pool}, nil
}

// Pool returns the underlying connection pool.
func (c *Client) Pool() *pgxpool.Pool { return c.pool }

// Close shuts down the connection pool.
func (c *Client) Close() { c.pool.Close() }

// RunMigrations applies the embedded migrations/*.sql files in lexicographic
// order, tracking progress in a schema_migrations table.
func (c *Client) RunMigrations(ctx context.Context) error {
	if err := pgxpoolutil.RunMigrations(ctx, c.pool, migrationsFS, "migrations"); err != nil {
		return fmt.Errorf("auditstore: %w", err)
	}
	return nil
}
