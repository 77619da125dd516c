// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package logworker connects raw container output streams to a log
// hub.
//
// A [Worker] owns one stream: it reads lines, strips terminal control
// sequences, reassembles multiline entries with its own
// multiline.Aggregator, and publishes every finished entry. On end of
// stream, on a read error, or on cancellation it flushes whatever is
// still buffered before returning, so the last entry of a crashed
// container is never lost. A failing stream ends only its own worker.
//
// A [Group] runs one worker per stream and collects their errors.
// [Console] renders entries as "service | line" for a terminal, the
// same shape whether they come straight from a worker or from a hub
// client.
package logworker
