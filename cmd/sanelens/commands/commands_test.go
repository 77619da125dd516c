// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRootListsCommands(t *testing.T) {
	root := Root()
	var help bytes.Buffer
	root.Output = &help

	if err := root.Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Execute(--help): %v", err)
	}
	for _, name := range []string{"logs", "traffic", "decode", "version"} {
		if !strings.Contains(help.String(), "  "+name) {
			t.Errorf("help missing %q:\n%s", name, help.String())
		}
	}
}

func TestRootSubcommandsHaveSummaries(t *testing.T) {
	for _, command := range Root().Subcommands {
		if command.Summary == "" {
			t.Errorf("command %q has no summary", command.Name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("command %q has neither Run nor subcommands", command.Name)
		}
	}
}

func TestRootTrafficRequiresService(t *testing.T) {
	t.Setenv("SANELENS_CONFIG", "")

	err := Root().Execute(context.Background(), []string{"traffic", "--format", "none"})
	if err == nil || !strings.Contains(err.Error(), "--service is required") {
		t.Errorf("got %v, want a missing service error", err)
	}
}

func TestRootLogsRequiresSource(t *testing.T) {
	err := Root().Execute(context.Background(), []string{"logs"})
	if err == nil || !strings.Contains(err.Error(), "at least one source") {
		t.Errorf("got %v, want a missing source error", err)
	}
}
