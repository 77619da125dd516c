// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package trafficgraph folds traffic observations into a graph of
// edges between entities.
//
// An edge is keyed by its endpoints plus either the layer-4 transport
// and destination port (flow edges) or the HTTP method and route
// (http edges). Each edge accumulates counts, byte totals, a server
// error count and latency percentiles over a bounded window of recent
// durations. [Graph] implements [traffic.Sink], so it can sit behind a
// [traffic.Tap] directly or alongside an exporter via
// [traffic.MultiSink].
package trafficgraph
