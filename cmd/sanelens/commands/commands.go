// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the sanelens command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sanelens/sanelens/cmd/sanelens/cli"
	logscmd "github.com/sanelens/sanelens/cmd/sanelens/logs"
	trafficcmd "github.com/sanelens/sanelens/cmd/sanelens/traffic"
	"github.com/sanelens/sanelens/lib/version"
)

// Root builds and returns the complete sanelens command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "sanelens",
		Description: `sanelens: runtime observability for containerised workloads.

Merge multiline container logs into whole entries, and turn sidecar
proxy access logs into traffic observations and an edge graph.`,
		Subcommands: []*cli.Command{
			logscmd.Command(),
			trafficcmd.Command(),
			trafficcmd.DecodeCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(os.Stdout, "sanelens %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
