// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package multiline

import (
	"strings"
	"time"
)

// DefaultMaxGap is the split threshold used when none is configured.
const DefaultMaxGap = 1500 * time.Millisecond

// Entry is one reassembled log entry. Line is the entry's first
// physical line as received, followed by the content of each
// continuation line (outer timestamp removed), joined with '\n'.
// ContainerTS is the outer timestamp token of the first line,
// verbatim, or empty when that line had none.
type Entry struct {
	Line        string
	ContainerTS string
}

// Aggregator turns a stream of physical lines into entries. The zero
// value is not usable; call New.
type Aggregator struct {
	maxGap time.Duration

	buffer      strings.Builder
	containerTS string

	lastArrival time.Time
	seenArrival bool

	lastOuterMS int64
	seenOuter   bool
}

// New returns an Aggregator that splits on gaps longer than maxGap. A
// non-positive maxGap selects DefaultMaxGap.
func New(maxGap time.Duration) *Aggregator {
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}
	return &Aggregator{maxGap: maxGap}
}

// PushLine ingests one physical line (without its terminator) that
// arrived at arrival, and returns the entries it completed: none, one,
// or two when a single-line JSON document closes both the previous
// entry and itself.
func (a *Aggregator) PushLine(line string, arrival time.Time) []Entry {
	outer, content := splitOuterTimestamp(line)

	arrivalGap := a.seenArrival && arrival.Sub(a.lastArrival) > a.maxGap
	split := arrivalGap
	if a.seenOuter && outer.present && outer.epochMS >= a.lastOuterMS {
		split = outer.epochMS-a.lastOuterMS > a.maxGap.Milliseconds()
	}

	ruling := Classify(content)

	var completed []Entry
	switch {
	case split || ruling.Decision == StartNew:
		completed = a.take(completed)
		a.start(line, outer.raw)
		if ruling.Complete {
			completed = a.take(completed)
		}
	case a.buffer.Len() == 0:
		a.start(line, outer.raw)
	default:
		a.buffer.WriteByte('\n')
		a.buffer.WriteString(content)
	}

	a.lastArrival = arrival
	a.seenArrival = true
	if outer.present {
		a.lastOuterMS = outer.epochMS
		a.seenOuter = true
	}
	return completed
}

// Flush drains whatever is buffered. It returns false when the buffer
// is empty, so calling it repeatedly is harmless.
func (a *Aggregator) Flush() (Entry, bool) {
	if a.buffer.Len() == 0 {
		return Entry{}, false
	}
	entry := Entry{Line: a.buffer.String(), ContainerTS: a.containerTS}
	a.buffer.Reset()
	a.containerTS = ""
	return entry, true
}

// Pending reports whether a partial entry is buffered.
func (a *Aggregator) Pending() bool {
	return a.buffer.Len() > 0
}

func (a *Aggregator) take(completed []Entry) []Entry {
	if entry, ok := a.Flush(); ok {
		completed = append(completed, entry)
	}
	return completed
}

func (a *Aggregator) start(line, containerTS string) {
	a.containerTS = containerTS
	a.buffer.WriteString(line)
}
