// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logs

import (
	"strings"
	"testing"
)

func TestParseSources(t *testing.T) {
	t.Parallel()

	sources, err := parseSources([]string{"api=-", "logs/worker.log", "db = /var/log/db"})
	if err != nil {
		t.Fatalf("parseSources: %v", err)
	}
	want := []source{
		{name: "api", path: "-"},
		{name: "worker", path: "logs/worker.log"},
		{name: "db", path: " /var/log/db"},
	}
	if len(sources) != len(want) {
		t.Fatalf("got %d sources, want %d", len(sources), len(want))
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d: got %+v, want %+v", i, sources[i], want[i])
		}
	}
}

func TestParseSourcesRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"api=a.log", "api=b.log"}, "duplicate source name"},
		{"two stdin", []string{"a=-", "b=-"}, "only one source"},
		{"unnamed stdin", []string{"-"}, "needs a name"},
		{"empty name", []string{"=a.log"}, "empty service name"},
		{"empty path", []string{"api="}, "empty path"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseSources(test.args)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("got %v, want an error containing %q", err, test.want)
			}
		})
	}
}

func TestPrefixWidth(t *testing.T) {
	t.Parallel()

	if got := prefixWidth([]source{{name: "api"}, {name: "worker"}}); got != 6 {
		t.Errorf("prefixWidth: got %d, want 6", got)
	}
}
