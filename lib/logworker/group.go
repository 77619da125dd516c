// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logworker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sanelens/sanelens/lib/clock"
)

// Group runs one Worker per stream with shared settings. A failing
// stream does not cancel its siblings.
type Group struct {
	Publisher Publisher
	MaxGap    time.Duration
	Clock     clock.Clock
	Echo      *Console
	Logger    *slog.Logger

	wait sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// Go starts a worker for service reading r. If r is an io.Closer it is
// closed when the worker returns.
func (g *Group) Go(ctx context.Context, service string, r io.Reader) {
	worker := &Worker{
		Service:   service,
		Publisher: g.Publisher,
		MaxGap:    g.MaxGap,
		Clock:     g.Clock,
		Echo:      g.Echo,
		Logger:    g.Logger,
	}
	g.wait.Add(1)
	go func() {
		defer g.wait.Done()
		if closer, ok := r.(io.Closer); ok {
			defer closer.Close()
		}
		if err := worker.Run(ctx, r); err != nil {
			if g.Logger != nil {
				g.Logger.Warn("log stream failed", "service", service, "error", err)
			}
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Wait blocks until every worker has returned and joins their errors.
func (g *Group) Wait() error {
	g.wait.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
