// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package obsexport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sanelens/sanelens/lib/clock"
	"github.com/sanelens/sanelens/lib/traffic"
)

// ErrClosed is returned by Consume after Close.
var ErrClosed = errors.New("exporter is closed")

// Options configures an Exporter. Zero values select the defaults.
type Options struct {
	// Compression is the preferred payload algorithm. Zero is
	// CompressionNone.
	Compression Compression

	// FlushThreshold is the pending observation count that triggers a
	// flush from Consume. Zero disables count-based flushing.
	FlushThreshold int

	// FlushInterval is the ticker period of Run. Zero or negative
	// makes Run wait for cancellation without flushing.
	FlushInterval time.Duration

	// Clock drives Run. Nil selects clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

// Exporter writes observation batches to a writer as frames. Safe for
// concurrent use.
type Exporter struct {
	accumulator *Accumulator
	compression Compression
	interval    time.Duration
	clock       clock.Clock
	logger      *slog.Logger

	// writeMu serializes flushes so frames reach the writer in
	// sequence order.
	writeMu sync.Mutex
	writer  io.Writer
	closed  bool
	batches uint64
	bytes   uint64
}

// New returns an Exporter writing frames to w. The caller owns w.
func New(w io.Writer, options Options) *Exporter {
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		accumulator: NewAccumulator(options.FlushThreshold),
		compression: options.Compression,
		interval:    options.FlushInterval,
		clock:       clk,
		logger:      logger,
		writer:      w,
	}
}

// Consume implements traffic.Sink. It flushes inline when the
// threshold is reached and returns that flush's error.
func (e *Exporter) Consume(observation traffic.Observation) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.accumulator.Add(observation) {
		return e.flushLocked()
	}
	return nil
}

// Flush writes pending observations as one frame. It is a no-op when
// nothing is pending.
func (e *Exporter) Flush() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.flushLocked()
}

func (e *Exporter) flushLocked() error {
	batch := e.accumulator.Flush()
	if batch == nil {
		return nil
	}
	frame, err := EncodeFrame(batch, e.compression)
	if err != nil {
		return err
	}
	if _, err := e.writer.Write(frame); err != nil {
		return fmt.Errorf("writing batch %d: %w", batch.Sequence, err)
	}
	e.batches++
	e.bytes += uint64(len(frame))
	e.logger.Debug("exported observation batch",
		"sequence", batch.Sequence,
		"observations", len(batch.Observations),
		"bytes", len(frame),
	)
	return nil
}

// Run flushes on every tick of the configured interval until ctx is
// done. Flush errors are logged; the pending batch is lost and the
// next tick carries on. Run does not perform a final flush; call Close
// for that.
func (e *Exporter) Run(ctx context.Context) {
	if e.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := e.Flush(); err != nil {
				e.logger.Error("periodic export failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close flushes what is pending and rejects further observations.
// Closing twice is harmless.
func (e *Exporter) Close() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.flushLocked()
}

// Stats returns the number of frames and bytes written so far.
func (e *Exporter) Stats() (batches, bytes uint64) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.batches, e.bytes
}
