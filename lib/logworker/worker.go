// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logworker

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sanelens/sanelens/lib/clock"
	"github.com/sanelens/sanelens/lib/multiline"
	"github.com/sanelens/sanelens/lib/netutil"
)

// Publisher receives finished entries. *loghub.Hub implements it.
type Publisher interface {
	Publish(service, line, containerTS string)
}

// Worker follows a single stream.
type Worker struct {
	// Service names the stream's events.
	Service string

	// Publisher receives every entry. Nil disables publishing, which
	// is only useful together with Echo.
	Publisher Publisher

	// MaxGap is handed to the aggregator; zero selects
	// multiline.DefaultMaxGap.
	MaxGap time.Duration

	// Clock supplies arrival times. Nil selects clock.Real().
	Clock clock.Clock

	// Echo, when set, also renders every entry.
	Echo *Console

	Logger *slog.Logger
}

// Run reads r until end of stream, a read error, or ctx is done, then
// flushes the aggregator. Cancellation is checked once per line,
// before each read; a read already blocked in r is not interrupted, so
// callers close r to stop a stalled stream. Expected terminations
// (EOF, closed pipe, reset) return nil.
func (w *Worker) Run(ctx context.Context, r io.Reader) error {
	clk := w.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("service", w.Service)

	aggregator := multiline.New(w.MaxGap)
	defer func() {
		if entry, ok := aggregator.Flush(); ok {
			w.emit(logger, entry)
		}
	}()

	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("log stream cancelled")
			return nil
		}

		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			raw = bytes.TrimSuffix(raw, []byte{'\n'})
			raw = bytes.TrimSuffix(raw, []byte{'\r'})
			for _, entry := range aggregator.PushLine(StripControl(raw), clk.Now()) {
				w.emit(logger, entry)
			}
		}
		if err != nil {
			if netutil.IsExpectedCloseError(err) {
				logger.Debug("log stream ended")
				return nil
			}
			return fmt.Errorf("reading %s logs: %w", w.Service, err)
		}
	}
}

func (w *Worker) emit(logger *slog.Logger, entry multiline.Entry) {
	if w.Publisher != nil {
		w.Publisher.Publish(w.Service, entry.Line, entry.ContainerTS)
	}
	if w.Echo != nil {
		if err := w.Echo.Print(w.Service, entry.Line, entry.ContainerTS); err != nil {
			logger.Debug("console echo failed", "error", err)
		}
	}
}
