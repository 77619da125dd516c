// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// sanelens merges multiline container logs and turns proxy access logs
// into traffic observations. See "sanelens --help".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanelens/sanelens/cmd/sanelens/commands"
	"github.com/sanelens/sanelens/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	// The first signal cancels; after that the default handler is
	// restored so a second interrupt kills a run stuck on a read.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	defer stop()

	return commands.Root().Execute(ctx, os.Args[1:])
}
