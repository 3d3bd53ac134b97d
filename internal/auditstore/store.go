package auditstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/tx"
)

// Entry is one row of the append-only signed-envelope audit trail.
type Entry struct {
	ID        int64
	Sighash   evmtype.Hash
	Signer    evmtype.Address
	Type      tx.Type
	RawBytes  []byte
	CreatedAt time.Time
}

// Store implements an append-only audit trail of signed transaction
// envelopes using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Record serializes env (which must already be signed) and appends an audit
// row for it, keyed on its sighash so recording the same envelope twice is
// a no-op rather than a duplicate row.
func (s *Store) Record(ctx context.Context, env tx.Envelope) error {
	if env.Signature == nil {
		return fmt.Errorf("auditstore: record: envelope is unsigned")
	}

	digest, err := tx.Sighash(env)
	if err != nil {
		return fmt.Errorf("auditstore: record: computing sighash: %w", err)
	}
	addr, err := tx.RecoverSender(env)
	if err != nil {
		return fmt.Errorf("auditstore: record: recovering sender: %w", err)
	}
	raw, err := tx.Serialize(env)
	if err != nil {
		return fmt.Errorf("auditstore: record: serializing: %w", err)
	}

	const query = `
		INSERT INTO signed_envelopes (sighash, signer_address, tx_type, raw_bytes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sighash) DO NOTHING`
	if _, err := s.pool.Exec(ctx, query, digest.Bytes(), addr.Bytes(), int16(env.Type), raw); err != nil {
		return fmt.Errorf("auditstore: record: insert: %w", err)
	}
	return nil
}

// ListOpts bounds a List query.
type ListOpts struct {
	Signer *evmtype.Address
	Since  *time.Time
	Limit  int
	Offset int
}

// List returns recorded audit entries, most recent first, optionally
// filtered by signer address and/or a lower time bound.
func (s *Store) List(ctx context.Context, opts ListOpts) ([]Entry, error) {
	query := `SELECT id, sighash, signer_address, tx_type, raw_bytes, created_at
		FROM signed_envelopes WHERE 1=1`
	var args []any
	argIdx := 1

	if opts.Signer != nil {
		query += fmt.Sprintf(" AND signer_address = $%d", argIdx)
		args = append(args, opts.Signer.Bytes())
		argIdx++
	}
	if opts.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditstore: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			sighash    []byte
			signerAddr []byte
			txType     int16
		)
		if err := rows.Scan(&e.ID, &sighash, &signerAddr, &txType, &e.RawBytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("auditstore: list: scan: %w", err)
		}
		e.Sighash = evmtype.BytesToHash(sighash)
		e.Signer = evmtype.BytesToAddress(signerAddr)
		e.Type = tx.Type(txType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditstore: list: %w", err)
	}
	return entries, nil
}
