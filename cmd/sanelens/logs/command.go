// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package logs implements "sanelens logs": merge container log streams
// into whole entries and print them through a log hub.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/sanelens/sanelens/cmd/sanelens/cli"
	"github.com/sanelens/sanelens/lib/config"
	"github.com/sanelens/sanelens/lib/loghub"
	"github.com/sanelens/sanelens/lib/logworker"
)

type logsParams struct {
	ConfigPath string
	History    int
	MaxGap     time.Duration
	Color      string
	Timestamps bool
	JSON       bool
}

// Command returns the "logs" command.
func Command() *cli.Command {
	var params logsParams

	return &cli.Command{
		Name:    "logs",
		Summary: "Merge multiline container logs from several streams",
		Description: `Read one or more container log streams, group continuation lines
(stack traces, wrapped JSON, indented detail) into whole entries, and
print the merged result with a coloured per-service prefix.

Each source is "name=path". A path of "-" reads standard input; a bare
path uses the file name without extension as the service name. Lines
may carry a leading RFC 3339 timestamp, as written by
"docker logs --timestamps"; it drives entry splitting and is hidden
unless --timestamps is given.

Every stream feeds one log hub, so a slow terminal never blocks a
reader: the viewer misses events instead, and the count is reported
on exit.`,
		Usage: "sanelens logs [flags] name=path...",
		Examples: []cli.Example{
			{
				Description: "Follow two services",
				Command:     "sanelens logs api=api.log worker=worker.log",
			},
			{
				Description: "Pipe docker output through the aggregator",
				Command:     "docker logs -t -f api 2>&1 | sanelens logs api=-",
			},
			{
				Description: "Emit hub events as JSON lines",
				Command:     "sanelens logs --json api=api.log",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logs", pflag.ContinueOnError)
			flagSet.StringVar(&params.ConfigPath, "config", "", "configuration file (default $"+config.EnvironmentVariable+")")
			flagSet.IntVar(&params.History, "history", 0, "events kept for replay (default from config)")
			flagSet.DurationVar(&params.MaxGap, "max-gap", 0, "gap that ends a multiline entry (default from config)")
			flagSet.StringVar(&params.Color, "color", "", "auto, always, or never (default from config)")
			flagSet.BoolVar(&params.Timestamps, "timestamps", false, "show container timestamps")
			flagSet.BoolVar(&params.JSON, "json", false, "print events as JSON lines")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one source is required (name=path)")
			}
			sources, err := parseSources(args)
			if err != nil {
				return err
			}
			cfg, err := cli.LoadConfig(params.ConfigPath)
			if err != nil {
				return err
			}
			params.apply(&cfg.Logs)

			return run(ctx, cfg.Logs, params.JSON, sources, os.Stdout, logger)
		},
	}
}

// apply overlays flags that were given on the configured values.
func (p *logsParams) apply(logs *config.LogsConfig) {
	if p.History > 0 {
		logs.HistorySize = p.History
	}
	if p.MaxGap > 0 {
		logs.MaxGap = p.MaxGap
	}
	if p.Color != "" {
		logs.Console.Color = p.Color
	}
	if p.Timestamps {
		logs.Console.Timestamps = true
	}
}

// run feeds every source into one hub and prints what a registered
// viewer receives until every source has ended or ctx is done.
func run(ctx context.Context, logs config.LogsConfig, asJSON bool, sources []source, out io.Writer, logger *slog.Logger) error {
	hub := loghub.New(logs.HistorySize,
		loghub.WithClientQueueSize(logs.ClientQueueSize),
		loghub.WithLogger(logger),
	)
	client, history := hub.RegisterClient()
	defer client.Close()

	var render renderer
	if asJSON {
		render = newJSONRenderer(out)
	} else {
		render = newConsoleRenderer(out, logworker.ConsoleOptions{
			Color:       logworker.ColorMode(logs.Console.Color),
			Timestamps:  logs.Console.Timestamps,
			PrefixWidth: prefixWidth(sources),
		})
	}

	producersDone := make(chan struct{})
	viewerDone := make(chan error, 1)
	go func() {
		viewerDone <- view(client, history, render, producersDone)
	}()

	group := &logworker.Group{
		Publisher: hub,
		MaxGap:    logs.MaxGap,
		Logger:    logger,
	}
	var closers []io.Closer
	for _, src := range sources {
		reader, err := src.open()
		if err != nil {
			logger.Error("cannot open log source", "service", src.name, "error", err)
			continue
		}
		if closer, ok := reader.(io.Closer); ok {
			closers = append(closers, closer)
		}
		logger.Debug("reading log source", "service", src.name, "path", src.path)
		group.Go(ctx, src.name, reader)
	}
	// Workers only notice cancellation between reads; closing the
	// files unblocks the ones waiting on a quiet stream.
	stopClosing := context.AfterFunc(ctx, func() {
		for _, closer := range closers {
			closer.Close()
		}
	})
	defer stopClosing()
	readErr := group.Wait()
	close(producersDone)

	viewErr := <-viewerDone
	if dropped := client.Dropped(); dropped > 0 {
		logger.Warn("viewer fell behind and missed events", "dropped", dropped)
	}
	logger.Debug("log sources finished", "events", hub.LastSeq())

	if viewErr != nil {
		return viewErr
	}
	return readErr
}

// view renders the registration snapshot, then live events, until
// producersDone is closed and the queue is empty. The hub never closes
// the events channel, so the drain after producersDone is what ends
// the loop.
func view(client *loghub.Client, history []loghub.LogEvent, render renderer, producersDone <-chan struct{}) error {
	return viewEvents(client.Events(), history, render, producersDone)
}

func viewEvents(events <-chan loghub.LogEvent, history []loghub.LogEvent, render renderer, producersDone <-chan struct{}) error {
	dedup := loghub.NewDedup(history)
	emit := func(event loghub.LogEvent) error {
		if !dedup.Accept(event) {
			return nil
		}
		return render(event)
	}

	for _, event := range history {
		if err := render(event); err != nil {
			return err
		}
	}
	for {
		select {
		case event := <-events:
			if err := emit(event); err != nil {
				return err
			}
		case <-producersDone:
			for {
				select {
				case event := <-events:
					if err := emit(event); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		}
	}
}

// prefixWidth pads service prefixes to the longest name so that the
// separators line up.
func prefixWidth(sources []source) int {
	width := 0
	for _, src := range sources {
		width = max(width, len(src.name))
	}
	return width
}
