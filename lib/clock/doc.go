// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall time so that the log pipeline and the
// traffic exporter can be driven deterministically in tests.
//
// Components that read the time or wait on a ticker take a Clock
// instead of calling the time package. Production wiring passes
// Real(); tests pass Fake() and move time forward explicitly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	exporter := obsexport.New(w, obsexport.Config{Clock: c, ...})
//	go exporter.Run(ctx)
//	c.WaitForWaiters(1)       // the flush loop registered its ticker
//	c.Advance(5 * time.Second) // fire it
//
// WaitForWaiters closes the race between a goroutine registering a
// ticker and the test advancing past its deadline.
package clock
