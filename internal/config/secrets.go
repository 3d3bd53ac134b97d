package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	out.Keystore = cfg.Keystore
	redact(&out.Keystore.RawPrivateKeyHex)
	redact(&out.Keystore.KeyPassword)

	out.Noncecache = cfg.Noncecache
	redact(&out.Noncecache.Password)

	out.Auditstore = cfg.Auditstore
	redact(&out.Auditstore.DSN)
	redact(&out.Auditstore.Password)

	out.Relay = cfg.Relay

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Relay.CORSOrigins != nil {
		out.Relay.CORSOrigins = make([]string, len(cfg.Relay.CORSOrigins))
		copy(out.Relay.CORSOrigins, cfg.Relay.CORSOrigins)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
