// Package config loads the inspector's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inspector InspectorConfig `yaml:"inspector"`
	Server    ServerConfig    `yaml:"server"`
	Host      HostConfig      `yaml:"host"`
	Log       LogConfig       `yaml:"log"`
}

// ---- INSPECTOR ----

type InspectorConfig struct {
	MaxDepth    int `yaml:"max_depth"`
	MaxNodes    int `yaml:"max_nodes"`
	RetireAfter int `yaml:"retire_after"`

	// Nodes carrying one of these tags are reported shallow and listed as
	// observable roots.
	BoundaryTags []string `yaml:"boundary_tags"`
}

// ---- SERVER ----

type ServerConfig struct {
	Transport  string `yaml:"transport"` // stdio | streamable-http | ws
	Port       int    `yaml:"port"`
	CacheTTLMs int    `yaml:"cache_ttl_ms"`
}

// CacheTTL returns the snapshot cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMs) * time.Millisecond
}

// ---- HOST ----

type HostConfig struct {
	Animate    bool `yaml:"animate"`
	IntervalMs int  `yaml:"interval_ms"`
}

// Interval returns the host frame interval.
func (h HostConfig) Interval() time.Duration {
	return time.Duration(h.IntervalMs) * time.Millisecond
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Transports lists the accepted server transports.
var Transports = []string{"stdio", "streamable-http", "ws"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Inspector: InspectorConfig{MaxDepth: 64, MaxNodes: 10000, RetireAfter: 2},
		Server:    ServerConfig{Transport: "stdio", Port: 8080, CacheTTLMs: 250},
		Host:      HostConfig{IntervalMs: 500},
		Log:       LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults, then validates and normalizes the
// result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	Normalize(cfg)
	return cfg, nil
}
