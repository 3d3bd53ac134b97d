package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/ethcore/internal/noncecache"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// runNextNonce reserves and prints the next nonce for an address from the
// Redis-backed noncecache, seeding the counter from -floor on first use.
func runNextNonce(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("next-nonce", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a TOML config file supplying the noncecache section")
	addrHex := fs.String("address", "", "account address (required)")
	floor := fs.Uint64("floor", 0, "nonce to seed the counter with if none is reserved yet")
	peek := fs.Bool("peek", false, "report the next nonce without reserving it")
	reset := fs.Int64("reset", -1, "force the stored nonce to this value instead of reserving one")
	fs.Parse(args)

	if *addrHex == "" {
		return fmt.Errorf("next-nonce: -address is required")
	}
	addr, err := evmtype.ParseAddress(*addrHex)
	if err != nil {
		return fmt.Errorf("parsing -address: %w", err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cache, err := noncecache.Connect(ctx, noncecache.ClientConfig{
		Addr:       cfg.Noncecache.Addr,
		Password:   cfg.Noncecache.Password,
		DB:         cfg.Noncecache.DB,
		PoolSize:   cfg.Noncecache.PoolSize,
		MaxRetries: cfg.Noncecache.MaxRetries,
		TLSEnabled: cfg.Noncecache.TLSEnabled,
	})
	if err != nil {
		return fmt.Errorf("connecting to noncecache: %w", err)
	}
	defer cache.Close()

	if *reset >= 0 {
		if err := cache.Reset(ctx, addr, uint64(*reset)); err != nil {
			return err
		}
		logger.Info("reset nonce", slog.String("address", addr.String()), slog.Int64("value", *reset))
		fmt.Printf("nonce: %d\n", *reset)
		return nil
	}

	var n uint64
	if *peek {
		n, err = cache.Peek(ctx, addr, *floor)
	} else {
		n, err = cache.Next(ctx, addr, *floor)
	}
	if err != nil {
		return err
	}

	logger.Info("nonce", slog.String("address", addr.String()), slog.Uint64("value", n), slog.Bool("peek", *peek))
	fmt.Printf("nonce: %d\n", n)
	return nil
}
