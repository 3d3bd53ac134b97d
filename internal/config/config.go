// Package config defines the top-level configuration for the ethcorectl
// companion services and provides validation helpers. The codec and signer
// packages under pkg/ take no configuration beyond the per-call
// abi.DecodeOptions record; this package exists only for the network-facing
// services layered on top of them.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ETHCORE_* environment
// variables.
type Config struct {
	Keystore   KeystoreConfig   `toml:"keystore"`
	Noncecache NoncecacheConfig `toml:"noncecache"`
	Auditstore AuditstoreConfig `toml:"auditstore"`
	Relay      RelayConfig      `toml:"relay"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// KeystoreConfig selects how cmd/ethcorectl resolves the signing key: a raw
// hex private key, or an encrypted keystore file plus its password.
type KeystoreConfig struct {
	RawPrivateKeyHex string `toml:"raw_private_key_hex"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// NoncecacheConfig holds Redis connection parameters for the per-address
// nonce allocator.
type NoncecacheConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// AuditstoreConfig holds PostgreSQL connection parameters for the signed
// envelope audit trail.
type AuditstoreConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RelayConfig holds the event-log relay WebSocket server's HTTP parameters.
type RelayConfig struct {
	Enabled     bool     `toml:"enabled"`
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Noncecache: NoncecacheConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Auditstore: AuditstoreConfig{
			DSN:           "",
			Host:          "localhost",
			Port:          5432,
			Database:      "ethcore",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Relay: RelayConfig{
			Enabled:     true,
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Mode:     "cli",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"cli":   true,
	"relay": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: cli, relay)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Keystore.EncryptedKeyPath != "" && c.Keystore.KeyPassword == "" {
		errs = append(errs, "keystore: key_password is required when encrypted_key_path is set")
	}

	if c.Noncecache.Addr == "" {
		errs = append(errs, "noncecache: addr must not be empty")
	}
	if c.Noncecache.PoolSize < 1 {
		errs = append(errs, "noncecache: pool_size must be >= 1")
	}

	if strings.TrimSpace(c.Auditstore.DSN) == "" {
		if c.Auditstore.Host == "" {
			errs = append(errs, "auditstore: host must not be empty (or set auditstore.dsn)")
		}
		if c.Auditstore.Port <= 0 || c.Auditstore.Port > 65535 {
			errs = append(errs, fmt.Sprintf("auditstore: port must be 1-65535, got %d", c.Auditstore.Port))
		}
		if c.Auditstore.Database == "" {
			errs = append(errs, "auditstore: database must not be empty")
		}
	}
	if c.Auditstore.PoolMaxConns < 1 {
		errs = append(errs, "auditstore: pool_max_conns must be >= 1")
	}
	if c.Auditstore.PoolMinConns < 0 {
		errs = append(errs, "auditstore: pool_min_conns must be >= 0")
	}
	if c.Auditstore.PoolMinConns > c.Auditstore.PoolMaxConns {
		errs = append(errs, "auditstore: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Relay.Enabled && c.Relay.Addr == "" {
		errs = append(errs, "relay: addr must not be empty when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
