package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ETHCORE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadDefaults returns the built-in defaults with ETHCORE_* environment
// variable overrides applied, without requiring a TOML file. Useful for
// callers that want config-file-free operation.
func LoadDefaults() *Config {
	cfg := Defaults()
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)
	return &cfg
}

// applyEnvOverrides reads well-known ETHCORE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Keystore ──
	setStr(&cfg.Keystore.RawPrivateKeyHex, "ETHCORE_KEYSTORE_RAW_PRIVATE_KEY_HEX")
	setStr(&cfg.Keystore.EncryptedKeyPath, "ETHCORE_KEYSTORE_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Keystore.KeyPassword, "ETHCORE_KEYSTORE_KEY_PASSWORD")

	// ── Noncecache ──
	setStr(&cfg.Noncecache.Addr, "ETHCORE_NONCECACHE_ADDR")
	setStr(&cfg.Noncecache.Password, "ETHCORE_NONCECACHE_PASSWORD")
	setInt(&cfg.Noncecache.DB, "ETHCORE_NONCECACHE_DB")
	setInt(&cfg.Noncecache.PoolSize, "ETHCORE_NONCECACHE_POOL_SIZE")
	setInt(&cfg.Noncecache.MaxRetries, "ETHCORE_NONCECACHE_MAX_RETRIES")
	setBool(&cfg.Noncecache.TLSEnabled, "ETHCORE_NONCECACHE_TLS_ENABLED")

	// ── Auditstore ──
	setStr(&cfg.Auditstore.DSN, "ETHCORE_AUDITSTORE_DSN")
	setStr(&cfg.Auditstore.Host, "ETHCORE_AUDITSTORE_HOST")
	setInt(&cfg.Auditstore.Port, "ETHCORE_AUDITSTORE_PORT")
	setStr(&cfg.Auditstore.Database, "ETHCORE_AUDITSTORE_DATABASE")
	setStr(&cfg.Auditstore.User, "ETHCORE_AUDITSTORE_USER")
	setStr(&cfg.Auditstore.Password, "ETHCORE_AUDITSTORE_PASSWORD")
	setStr(&cfg.Auditstore.SSLMode, "ETHCORE_AUDITSTORE_SSL_MODE")
	setInt(&cfg.Auditstore.PoolMaxConns, "ETHCORE_AUDITSTORE_POOL_MAX_CONNS")
	setInt(&cfg.Auditstore.PoolMinConns, "ETHCORE_AUDITSTORE_POOL_MIN_CONNS")
	setBool(&cfg.Auditstore.RunMigrations, "ETHCORE_AUDITSTORE_RUN_MIGRATIONS")

	// ── Relay ──
	setBool(&cfg.Relay.Enabled, "ETHCORE_RELAY_ENABLED")
	setStr(&cfg.Relay.Addr, "ETHCORE_RELAY_ADDR")
	setStringSlice(&cfg.Relay.CORSOrigins, "ETHCORE_RELAY_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.Mode, "ETHCORE_MODE")
	setStr(&cfg.LogLevel, "ETHCORE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
