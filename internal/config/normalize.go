package config

import "strings"

// Normalize applies post-validation normalization.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Server.Transport = strings.ToLower(cfg.Server.Transport)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	tags := cfg.Inspector.BoundaryTags[:0]
	seen := make(map[string]bool)
	for _, tag := range cfg.Inspector.BoundaryTags {
		tag = strings.TrimSpace(tag)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	cfg.Inspector.BoundaryTags = tags
}
