// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path from.
const EnvironmentVariable = "SANELENS_CONFIG"

// ErrNoConfig is returned by Load when SANELENS_CONFIG is unset.
var ErrNoConfig = errors.New(EnvironmentVariable + " environment variable not set")

// Config is the full sanelens configuration.
type Config struct {
	Logs     LogsConfig     `yaml:"logs"`
	Traffic  TrafficConfig  `yaml:"traffic"`
	Export   ExportConfig   `yaml:"export"`
	Registry RegistryConfig `yaml:"registry"`
}

// LogsConfig configures the log pipeline.
type LogsConfig struct {
	// HistorySize bounds the hub's replay window in events.
	HistorySize int `yaml:"history_size"`

	// ClientQueueSize is the per-viewer queue depth. A viewer whose
	// queue is full misses events rather than slowing producers.
	ClientQueueSize int `yaml:"client_queue_size"`

	// MaxGap is the arrival and timestamp gap that ends a multiline
	// entry.
	MaxGap time.Duration `yaml:"max_gap"`

	Console ConsoleConfig `yaml:"console"`
}

// ConsoleConfig configures human-readable log output.
type ConsoleConfig struct {
	// Color is "auto", "always", or "never".
	Color string `yaml:"color"`

	// Timestamps prints the container timestamp column when present.
	Timestamps bool `yaml:"timestamps"`
}

// TrafficConfig configures the access-log tap.
type TrafficConfig struct {
	// Service is the workload whose proxy produced the access log.
	Service string `yaml:"service"`

	// Egress marks the log as outbound traffic from Service.
	Egress bool `yaml:"egress"`
}

// ExportConfig configures the framed observation exporter.
type ExportConfig struct {
	// Path is the frame file. Empty disables export.
	Path string `yaml:"path"`

	// Compression is "none", "lz4", or "zstd".
	Compression string `yaml:"compression"`

	FlushInterval  time.Duration `yaml:"flush_interval"`
	FlushThreshold int           `yaml:"flush_threshold"`
}

// RegistryConfig lists the identities the static resolver knows.
type RegistryConfig struct {
	Workloads []WorkloadEntry `yaml:"workloads"`
	Externals []ExternalEntry `yaml:"externals"`
}

// WorkloadEntry maps addresses to a workload identity. Each address is
// either "ip" or "ip:port"; bracketed IPv6 is accepted for the latter.
type WorkloadEntry struct {
	Name      string   `yaml:"name"`
	Instance  string   `yaml:"instance"`
	Addresses []string `yaml:"addresses"`
}

// ExternalEntry names an external address.
type ExternalEntry struct {
	IP      string `yaml:"ip"`
	DNSName string `yaml:"dns_name"`
}

// Default returns the configuration used before any file is applied.
func Default() *Config {
	return &Config{
		Logs: LogsConfig{
			HistorySize:     2000,
			ClientQueueSize: 512,
			MaxGap:          1500 * time.Millisecond,
			Console:         ConsoleConfig{Color: "auto"},
		},
		Export: ExportConfig{
			Compression:    "zstd",
			FlushInterval:  5 * time.Second,
			FlushThreshold: 256,
		},
	}
}

// Load loads the file named by SANELENS_CONFIG. There is no fallback:
// an unset variable is ErrNoConfig, which callers treat as "run with
// Default()".
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, ErrNoConfig
	}
	return LoadFile(path)
}

// LoadFile loads path on top of Default and expands variables in
// path-valued fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Export.Path = expandVars(c.Export.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. vars takes precedence
// over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, fallback := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fallback
	})
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Logs.HistorySize <= 0 {
		errs = append(errs, fmt.Errorf("logs.history_size must be positive, got %d", c.Logs.HistorySize))
	}
	if c.Logs.ClientQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("logs.client_queue_size must be positive, got %d", c.Logs.ClientQueueSize))
	}
	if c.Logs.MaxGap <= 0 {
		errs = append(errs, fmt.Errorf("logs.max_gap must be positive, got %v", c.Logs.MaxGap))
	}
	switch c.Logs.Console.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("logs.console.color must be auto, always, or never, got %q", c.Logs.Console.Color))
	}

	switch c.Export.Compression {
	case "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("export.compression must be none, lz4, or zstd, got %q", c.Export.Compression))
	}
	if c.Export.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("export.flush_interval must be positive, got %v", c.Export.FlushInterval))
	}
	if c.Export.FlushThreshold <= 0 {
		errs = append(errs, fmt.Errorf("export.flush_threshold must be positive, got %d", c.Export.FlushThreshold))
	}

	for i, workload := range c.Registry.Workloads {
		if workload.Name == "" {
			errs = append(errs, fmt.Errorf("registry.workloads[%d]: name is required", i))
		}
		for _, address := range workload.Addresses {
			if _, _, err := ParseRegistryAddress(address); err != nil {
				errs = append(errs, fmt.Errorf("registry.workloads[%d] (%s): %w", i, workload.Name, err))
			}
		}
	}
	for i, external := range c.Registry.Externals {
		if _, err := netip.ParseAddr(external.IP); err != nil {
			errs = append(errs, fmt.Errorf("registry.externals[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// ParseRegistryAddress parses a registry address. A bare IP yields
// port zero, which the resolver treats as "any port".
func ParseRegistryAddress(address string) (ip netip.Addr, port uint16, err error) {
	if addrPort, parseErr := netip.ParseAddrPort(address); parseErr == nil {
		return addrPort.Addr(), addrPort.Port(), nil
	}
	ip, err = netip.ParseAddr(strings.Trim(address, "[]"))
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("invalid address %q: want ip or ip:port", address)
	}
	return ip, 0, nil
}
