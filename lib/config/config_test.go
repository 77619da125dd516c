// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if cfg.Logs.MaxGap != 1500*time.Millisecond {
		t.Errorf("logs.max_gap: got %v, want 1.5s", cfg.Logs.MaxGap)
	}
	if cfg.Export.Compression != "zstd" {
		t.Errorf("export.compression: got %q, want zstd", cfg.Export.Compression)
	}
}

func TestLoadRequiresEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("Load() error: got %v, want ErrNoConfig", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "sanelens.yaml", "logs:\n  history_size: 50\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logs.HistorySize != 50 {
		t.Errorf("logs.history_size: got %d, want 50", cfg.Logs.HistorySize)
	}
	if cfg.Logs.ClientQueueSize != 512 {
		t.Errorf("logs.client_queue_size kept default: got %d, want 512", cfg.Logs.ClientQueueSize)
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "sanelens.yaml", `
logs:
  max_gap: 250ms
  console:
    color: never
    timestamps: true
traffic:
  service: api
  egress: true
registry:
  workloads:
    - name: db
      instance: db-1
      addresses: ["10.0.0.2:5432", "10.0.0.3"]
  externals:
    - ip: 93.184.216.34
      dns_name: example.com
export:
  compression: lz4
  flush_threshold: 10
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Logs.MaxGap != 250*time.Millisecond {
		t.Errorf("logs.max_gap: got %v, want 250ms", cfg.Logs.MaxGap)
	}
	if cfg.Logs.Console.Color != "never" || !cfg.Logs.Console.Timestamps {
		t.Errorf("logs.console: got %+v", cfg.Logs.Console)
	}
	if cfg.Traffic.Service != "api" || !cfg.Traffic.Egress {
		t.Errorf("traffic: got %+v", cfg.Traffic)
	}
	if len(cfg.Registry.Workloads) != 1 || len(cfg.Registry.Workloads[0].Addresses) != 2 {
		t.Fatalf("registry.workloads: got %+v", cfg.Registry.Workloads)
	}
	if cfg.Registry.Externals[0].DNSName != "example.com" {
		t.Errorf("registry.externals[0].dns_name: got %q", cfg.Registry.Externals[0].DNSName)
	}
	if cfg.Export.FlushInterval != 5*time.Second {
		t.Errorf("export.flush_interval kept default: got %v", cfg.Export.FlushInterval)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "sanelens.jsonc", `{
  // viewer settings
  "logs": {"history_size": 10, "max_gap": "2s",},
  "export": {"compression": "none"},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Logs.HistorySize != 10 {
		t.Errorf("logs.history_size: got %d, want 10", cfg.Logs.HistorySize)
	}
	if cfg.Logs.MaxGap != 2*time.Second {
		t.Errorf("logs.max_gap: got %v, want 2s", cfg.Logs.MaxGap)
	}
	if cfg.Export.Compression != "none" {
		t.Errorf("export.compression: got %q, want none", cfg.Export.Compression)
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile error: got %v, want wrapped ErrNotExist", err)
	}
}

func TestExportPathExpansion(t *testing.T) {
	t.Setenv("SANELENS_TEST_STATE", "/var/state")

	path := writeConfig(t, "sanelens.yaml", `
export:
  path: ${SANELENS_TEST_STATE}/frames
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Export.Path != "/var/state/frames" {
		t.Errorf("export.path: got %q, want /var/state/frames", cfg.Export.Path)
	}
}

func TestExpandVars(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"HOME": "/home/dev"}
	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/x", "/home/dev/x"},
		{"${SANELENS_TEST_UNSET_VAR:-/fallback}/x", "/fallback/x"},
		{"${SANELENS_TEST_UNSET_VAR}/x", "/x"},
		{"plain", "plain"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q): got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Logs.HistorySize = 0
	cfg.Logs.Console.Color = "sometimes"
	cfg.Export.Compression = "gzip"
	cfg.Registry.Workloads = []WorkloadEntry{{Addresses: []string{"not-an-ip"}}}
	cfg.Registry.Externals = []ExternalEntry{{IP: "nope"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() returned nil")
	}
	for _, fragment := range []string{
		"logs.history_size",
		"logs.console.color",
		"export.compression",
		"registry.workloads[0]: name is required",
		`invalid address "not-an-ip"`,
		"registry.externals[0]",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Validate() error missing %q:\n%v", fragment, err)
		}
	}
}

func TestParseRegistryAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantIP   string
		wantPort uint16
		wantErr  bool
	}{
		{"10.0.0.2:5432", "10.0.0.2", 5432, false},
		{"10.0.0.2", "10.0.0.2", 0, false},
		{"[::1]:8080", "::1", 8080, false},
		{"::1", "::1", 0, false},
		{"[fd00::2]", "fd00::2", 0, false},
		{"db:5432", "", 0, true},
	}
	for _, test := range tests {
		ip, port, err := ParseRegistryAddress(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseRegistryAddress(%q) error: got %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if test.wantErr {
			continue
		}
		if ip.String() != test.wantIP || port != test.wantPort {
			t.Errorf("ParseRegistryAddress(%q): got %v %d, want %s %d", test.input, ip, port, test.wantIP, test.wantPort)
		}
	}
}
