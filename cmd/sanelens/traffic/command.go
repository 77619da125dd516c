// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package traffic implements "sanelens traffic" and "sanelens decode":
// turn proxy access logs into observations, and read exported
// observation frames back.
package traffic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/sanelens/sanelens/cmd/sanelens/cli"
	"github.com/sanelens/sanelens/lib/config"
	"github.com/sanelens/sanelens/lib/obsexport"
	"github.com/sanelens/sanelens/lib/traffic"
	"github.com/sanelens/sanelens/lib/trafficgraph"
)

// formatNone suppresses the observation stream.
const formatNone = "none"

type trafficParams struct {
	ConfigPath  string
	Service     string
	Egress      bool
	Format      string
	ExportPath  string
	Compression string
	Graph       bool
}

// Command returns the "traffic" command.
func Command() *cli.Command {
	var params trafficParams

	return &cli.Command{
		Name:    "traffic",
		Summary: "Turn proxy access logs into traffic observations",
		Description: `Read a newline-delimited JSON access log written by a sidecar proxy
and map each record to an observation: an HTTP exchange when the
record carries a method, path, or authority, otherwise a layer-4 flow
between the downstream and upstream sockets.

The log belongs to --service. For an ingress proxy that service is the
destination; with --egress the destination is the record's authority
or upstream host instead. Sources are identified through the registry
section of the configuration file.

Observations are written to stdout as JSON lines or a CBOR sequence.
--export appends compressed frames to a file for later "sanelens
decode". --graph prints an edge summary when the input ends.

Input lines that are not JSON objects are skipped and counted. If every
line was skipped the command exits 1.`,
		Usage: "sanelens traffic [flags] [access-log]",
		Examples: []cli.Example{
			{
				Description: "Observe an ingress log",
				Command:     "sanelens traffic --service checkout envoy-access.log",
			},
			{
				Description: "Egress traffic from stdin, summary only",
				Command:     "kubectl logs -f checkout -c envoy | sanelens traffic --service checkout --egress --format none --graph",
			},
			{
				Description: "Record zstd frames while streaming CBOR",
				Command:     "sanelens traffic --service checkout --format cbor --export obs.frames access.log > obs.cbor",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("traffic", pflag.ContinueOnError)
			flagSet.StringVar(&params.ConfigPath, "config", "", "configuration file (default $"+config.EnvironmentVariable+")")
			flagSet.StringVar(&params.Service, "service", "", "workload whose proxy wrote the log (default from config)")
			flagSet.BoolVar(&params.Egress, "egress", false, "the log records outbound traffic")
			flagSet.StringVar(&params.Format, "format", string(traffic.FormatJSON), "stdout format: json, cbor, or none")
			flagSet.StringVar(&params.ExportPath, "export", "", "append compressed observation frames to this file")
			flagSet.StringVar(&params.Compression, "compression", "", "frame compression: none, lz4, or zstd (default from config)")
			flagSet.BoolVar(&params.Graph, "graph", false, "print the traffic graph at end of input")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("expected at most one access log, got %d", len(args))
			}
			cfg, err := cli.LoadConfig(params.ConfigPath)
			if err != nil {
				return err
			}
			params.apply(cfg)
			if cfg.Traffic.Service == "" {
				return fmt.Errorf("--service is required (or traffic.service in the configuration)")
			}

			input := io.Reader(os.Stdin)
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				input = file
				// Tap only sees cancellation between reads.
				defer context.AfterFunc(ctx, func() { file.Close() })()
			}

			stats, err := run(ctx, cfg, runOptions{
				format: params.Format,
				graph:  params.Graph,
				input:  input,
				output: os.Stdout,
			}, logger)
			if err != nil {
				return err
			}
			if stats.Lines > 0 && stats.Malformed == stats.Lines {
				logger.Error("no access-log records found in input", "lines", stats.Lines)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func (p *trafficParams) apply(cfg *config.Config) {
	if p.Service != "" {
		cfg.Traffic.Service = p.Service
	}
	if p.Egress {
		cfg.Traffic.Egress = true
	}
	if p.ExportPath != "" {
		cfg.Export.Path = p.ExportPath
	}
	if p.Compression != "" {
		cfg.Export.Compression = p.Compression
	}
}

type runOptions struct {
	format string
	graph  bool
	input  io.Reader
	output io.Writer
}

// run wires the tap to its sinks and consumes input.
func run(ctx context.Context, cfg *config.Config, options runOptions, logger *slog.Logger) (traffic.TapStats, error) {
	resolver, err := traffic.ResolverFromRegistry(cfg.Registry)
	if err != nil {
		return traffic.TapStats{}, err
	}

	var sinks []traffic.Sink
	if options.format != formatNone {
		stream, err := traffic.NewEncoderSink(options.output, traffic.Format(options.format))
		if err != nil {
			return traffic.TapStats{}, err
		}
		sinks = append(sinks, stream)
	}

	var graph *trafficgraph.Graph
	if options.graph {
		graph = trafficgraph.New(trafficgraph.DefaultWindow)
		sinks = append(sinks, graph)
	}

	if cfg.Export.Path != "" {
		exporter, closeExport, err := startExport(ctx, cfg.Export, logger)
		if err != nil {
			return traffic.TapStats{}, err
		}
		defer func() {
			if err := closeExport(); err != nil {
				logger.Error("finishing export", "path", cfg.Export.Path, "error", err)
			}
		}()
		sinks = append(sinks, exporter)
	}

	tap := &traffic.Tap{
		Service:  cfg.Traffic.Service,
		Egress:   cfg.Traffic.Egress,
		Resolver: resolver,
		Sink:     traffic.MultiSink(sinks...),
		Logger:   logger,
	}
	logger.Debug("observing access log",
		"service", tap.Service,
		"egress", tap.Egress,
		"registry_entries", resolver.Len(),
	)
	stats, err := tap.Run(ctx, options.input)
	logger.Info("access log processed",
		"lines", stats.Lines,
		"observations", stats.Observations,
		"malformed", stats.Malformed,
		"dropped", stats.Dropped,
	)
	if err != nil {
		return stats, err
	}

	if graph != nil {
		if err := writeGraph(options.output, graph.Snapshot()); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// startExport opens the frame file and starts the periodic flush. The
// returned function stops the flush loop, writes the final batch, and
// closes the file.
func startExport(ctx context.Context, export config.ExportConfig, logger *slog.Logger) (*obsexport.Exporter, func() error, error) {
	compression, err := obsexport.ParseCompression(export.Compression)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(export.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening export file: %w", err)
	}

	exporter := obsexport.New(file, obsexport.Options{
		Compression:    compression,
		FlushThreshold: export.FlushThreshold,
		FlushInterval:  export.FlushInterval,
		Logger:         logger.With("export", export.Path),
	})
	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		exporter.Run(loopCtx)
	}()

	closeExport := func() error {
		stopLoop()
		<-loopDone
		closeErr := exporter.Close()
		batches, bytes := exporter.Stats()
		logger.Debug("export finished", "path", export.Path, "batches", batches, "bytes", bytes)
		if err := file.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
		return closeErr
	}
	return exporter, closeExport, nil
}
