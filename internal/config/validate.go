package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	in := cfg.Inspector
	if in.MaxDepth < 1 {
		return fmt.Errorf("inspector.max_depth must be at least 1, got %d", in.MaxDepth)
	}
	if in.MaxNodes < 1 {
		return fmt.Errorf("inspector.max_nodes must be at least 1, got %d", in.MaxNodes)
	}
	if in.RetireAfter < 1 {
		return fmt.Errorf("inspector.retire_after must be at least 1, got %d", in.RetireAfter)
	}
	for _, tag := range in.BoundaryTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("inspector.boundary_tags: empty tag")
		}
	}

	s := cfg.Server
	if !slices.Contains(Transports, strings.ToLower(s.Transport)) {
		return fmt.Errorf("server.transport %q: must be one of %s", s.Transport, strings.Join(Transports, ", "))
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Port)
	}
	if s.CacheTTLMs < 0 {
		return fmt.Errorf("server.cache_ttl_ms must not be negative, got %d", s.CacheTTLMs)
	}

	if cfg.Host.IntervalMs < 0 {
		return fmt.Errorf("host.interval_ms must not be negative, got %d", cfg.Host.IntervalMs)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}
