// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sanelens/sanelens/lib/clock"
	"github.com/sanelens/sanelens/lib/netutil"
)

// TapStats counts what a Tap did with its input.
type TapStats struct {
	// Lines is every non-blank line read.
	Lines uint64
	// Malformed lines were not a JSON object.
	Malformed uint64
	// Observations were handed to the sink.
	Observations uint64
	// Dropped records parsed but described an incomplete flow.
	Dropped uint64
}

// Tap reads a newline-delimited access log and feeds observations to
// Sink.
type Tap struct {
	// Service is the workload whose proxy wrote the log.
	Service string
	// Egress marks the log as outbound traffic from Service.
	Egress bool
	// Resolver identifies downstream addresses. Nil resolves nothing.
	Resolver Resolver
	// Clock stamps observations. Nil selects clock.Real().
	Clock clock.Clock
	Sink  Sink

	Logger *slog.Logger
}

// Run consumes r until end of stream or until ctx is done. Malformed
// lines and incomplete flows are counted and skipped. It returns the
// first sink error, or a read error other than a normal close.
func (t *Tap) Run(ctx context.Context, r io.Reader) (TapStats, error) {
	clk := t.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var stats TapStats
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, nil
		}

		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			stats.Lines++
			if err := t.handle(line, uint64(clk.Now().UnixMilli()), &stats, logger); err != nil {
				return stats, err
			}
		}
		if readErr != nil {
			if netutil.IsExpectedCloseError(readErr) {
				logger.Debug("access log ended", "lines", stats.Lines, "observations", stats.Observations)
				return stats, nil
			}
			return stats, fmt.Errorf("reading access log: %w", readErr)
		}
	}
}

func (t *Tap) handle(line []byte, nowMS uint64, stats *TapStats, logger *slog.Logger) error {
	record, ok := ParseAccessLog(line)
	if !ok {
		stats.Malformed++
		logger.Debug("skipping non-JSON access log line", "bytes", len(line))
		return nil
	}
	observation, ok := Observe(record, t.Service, t.Resolver, t.Egress, nowMS)
	if !ok {
		stats.Dropped++
		return nil
	}
	stats.Observations++
	if t.Sink == nil {
		return nil
	}
	return t.Sink.Consume(observation)
}
