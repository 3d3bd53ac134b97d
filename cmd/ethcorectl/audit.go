package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/ethcore/internal/auditstore"
	"github.com/alanyoungcy/ethcore/internal/keystore"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/tx"
)

func connectAuditstore(ctx context.Context, cfg auditstore.ClientConfig, runMigrations bool) (*auditstore.Client, error) {
	client, err := auditstore.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to auditstore: %w", err)
	}
	if runMigrations {
		if err := client.RunMigrations(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("running auditstore migrations: %w", err)
		}
	}
	return client, nil
}

// runAuditRecord signs a legacy transaction envelope exactly like sign-tx,
// then appends it to the Postgres-backed audit trail instead of (or in
// addition to) printing it.
func runAuditRecord(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("audit-record", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a TOML config file supplying the keystore and auditstore sections")
	keyHex := fs.String("key", "", "hex-encoded private key (overrides -config's keystore section)")
	to := fs.String("to", "", "recipient address (omit for contract creation)")
	valueDec := fs.Uint64("value", 0, "value in wei")
	nonce := fs.Uint64("nonce", 0, "account nonce")
	gas := fs.Uint64("gas", 21000, "gas limit")
	gasPrice := fs.Uint64("gas-price", 0, "legacy gas price in wei")
	chainID := fs.Uint64("chain-id", 1, "chain id for EIP-155 replay protection")
	dataHex := fs.String("data", "", "hex-encoded call data")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	rawKey := *keyHex
	if rawKey == "" {
		rawKey = cfg.Keystore.RawPrivateKeyHex
	}
	s, err := keystore.Load(keystore.Config{
		RawPrivateKeyHex: rawKey,
		EncryptedKeyPath: cfg.Keystore.EncryptedKeyPath,
		KeyPassword:      cfg.Keystore.KeyPassword,
	})
	if err != nil {
		return fmt.Errorf("loading key: %w", err)
	}

	env, err := buildLegacyEnvelope(*to, *valueDec, *nonce, *gas, *gasPrice, *chainID, *dataHex)
	if err != nil {
		return err
	}

	signed, err := tx.Sign(env, s)
	if err != nil {
		return fmt.Errorf("signing: %w", err)
	}

	ctx := context.Background()
	client, err := connectAuditstore(ctx, auditstore.ClientConfig{
		DSN:      cfg.Auditstore.DSN,
		Host:     cfg.Auditstore.Host,
		Port:     cfg.Auditstore.Port,
		Database: cfg.Auditstore.Database,
		User:     cfg.Auditstore.User,
		Password: cfg.Auditstore.Password,
		SSLMode:  cfg.Auditstore.SSLMode,
		MaxConns: cfg.Auditstore.PoolMaxConns,
		MinConns: cfg.Auditstore.PoolMinConns,
	}, cfg.Auditstore.RunMigrations)
	if err != nil {
		return err
	}
	defer client.Close()

	store := auditstore.NewStore(client.Pool())
	if err := store.Record(ctx, signed); err != nil {
		return fmt.Errorf("recording envelope: %w", err)
	}

	logger.Info("recorded signed transaction", slog.String("from", s.Address().String()), slog.Uint64("nonce", *nonce))
	fmt.Printf("recorded: from=%s nonce=%d\n", s.Address().String(), *nonce)
	return nil
}

// runAuditList lists recorded signed envelopes from the auditstore,
// optionally filtered by signer address and a lower time bound.
func runAuditList(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("audit-list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a TOML config file supplying the auditstore section")
	signerHex := fs.String("signer", "", "filter by signer address")
	sinceStr := fs.String("since", "", "filter by RFC3339 lower time bound")
	limit := fs.Int("limit", 50, "maximum rows to return")
	offset := fs.Int("offset", 0, "row offset")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := connectAuditstore(ctx, auditstore.ClientConfig{
		DSN:      cfg.Auditstore.DSN,
		Host:     cfg.Auditstore.Host,
		Port:     cfg.Auditstore.Port,
		Database: cfg.Auditstore.Database,
		User:     cfg.Auditstore.User,
		Password: cfg.Auditstore.Password,
		SSLMode:  cfg.Auditstore.SSLMode,
		MaxConns: cfg.Auditstore.PoolMaxConns,
		MinConns: cfg.Auditstore.PoolMinConns,
	}, false)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := auditstore.ListOpts{Limit: *limit, Offset: *offset}
	if *signerHex != "" {
		addr, err := evmtype.ParseAddress(*signerHex)
		if err != nil {
			return fmt.Errorf("parsing -signer: %w", err)
		}
		opts.Signer = &addr
	}
	if *sinceStr != "" {
		since, err := time.Parse(time.RFC3339, *sinceStr)
		if err != nil {
			return fmt.Errorf("parsing -since: %w", err)
		}
		opts.Since = &since
	}

	store := auditstore.NewStore(client.Pool())
	entries, err := store.List(ctx, opts)
	if err != nil {
		return err
	}

	logger.Info("listed audit entries", slog.Int("count", len(entries)))
	for _, e := range entries {
		fmt.Printf("%d\t%s\t%s\t%d\t%s\n", e.ID, e.Sighash.String(), e.Signer.String(), e.Type, e.CreatedAt.Format(time.RFC3339))
	}
	return nil
}
