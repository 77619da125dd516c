// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package obsexport batches traffic observations into compressed,
// length-prefixed frames.
//
// An [Exporter] is a [traffic.Sink]. It accumulates observations and
// writes a [Batch] whenever the count threshold is reached, whenever
// its flush ticker fires (see [Exporter.Run]), and once more on
// [Exporter.Close]. Each batch is CBOR-encoded with [codec], compressed
// with zstd or lz4, and framed as:
//
//	[u32 LE frame length][u8 compression][u32 LE uncompressed length][payload]
//
// The frame length counts every byte after itself. Batches carry a
// sequence number starting at zero so a reader can detect gaps.
// [ReadFrame] reverses the encoding.
//
// Data that does not shrink under the selected algorithm is stored
// uncompressed and tagged [CompressionNone], so readers must always
// honour the tag rather than assume the writer's setting.
package obsexport
