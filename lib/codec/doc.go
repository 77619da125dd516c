// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the one CBOR configuration used by every
// sanelens component that writes binary data.
//
// Observations leave the process in two shapes. JSON is used for
// anything a person or a browser reads: the traffic command's default
// output and log events rendered with --json. CBOR is used for the
// compact forms: obsexport frames and `sanelens traffic --format cbor`.
// Both shapes come from the same struct definitions because
// fxamacker/cbor falls back to `json` struct tags, so a type carries a
// single `json` tag set and never a second `cbor` one.
//
// Encoding is Core Deterministic (RFC 8949 §4.2), so an identical batch
// always produces identical bytes. Types implementing
// encoding.TextMarshaler, notably netip.Addr inside traffic sockets,
// encode as text strings rather than as empty maps.
//
//	data, err := codec.Marshal(batch)
//	err = codec.Unmarshal(data, &batch)
//
//	encoder := codec.NewEncoder(os.Stdout)
package codec
