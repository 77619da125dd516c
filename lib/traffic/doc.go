// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package traffic turns reverse-proxy access-log records into
// normalized observations of who talked to whom.
//
// [Observe] maps one [AccessLog] to at most one [Observation]. Records
// with request semantics (a method, path, or authority) become HTTP
// observations; records that only describe a connection become flow
// observations, and are dropped unless both endpoints parsed. Source
// identities come from a [Resolver]; the destination is the observed
// service itself for ingress proxies, or the external authority for
// egress proxies. Confidence is Exact only when both ends resolved.
//
// Malformed input never produces an error: an unparseable address is
// simply absent, a non-JSON line yields no record, and an incomplete
// flow yields no observation.
//
// [Tap] drives the mapping over a newline-delimited access-log stream
// and hands each observation to a [Sink]. The trafficgraph and
// obsexport packages provide sinks; [EncoderSink] writes them out
// directly.
package traffic
