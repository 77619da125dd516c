// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package multiline reassembles logical log entries from the raw line
// stream of one container.
//
// Container runtimes deliver output a line at a time, optionally
// prefixed with an RFC3339 timestamp. A stack trace or a pretty-printed
// structure arrives as many lines that belong to a single entry. An
// [Aggregator] buffers lines and decides where one entry ends and the
// next begins using three signals:
//
//   - the arrival gap between successive lines exceeds MaxGap;
//   - the gap between successive outer timestamps exceeds MaxGap,
//     evaluated only when both lines carry one and time did not move
//     backward (otherwise the arrival gap decides);
//   - a classifier recognizes the line as the start of an entry.
//
// The classifiers form a closed, ordered set evaluated first-match-wins:
// a line that is a complete JSON document is a start and also a
// complete entry by itself; a line whose first few tokens carry a
// date-time, an adjacent date and time, or a severity keyword is a
// start. Anything else is a continuation.
//
// An Aggregator belongs to a single stream and is not safe for
// concurrent use.
package multiline
