// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package loghub

// UnknownService is recorded for events published without a service.
const UnknownService = "unknown"

// LogEvent is one published log entry. Events are values; a viewer
// owns its copy.
type LogEvent struct {
	// Seq is strictly increasing across the whole hub, starting at 1.
	Seq uint64 `json:"seq"`

	Service string `json:"service"`

	// ContainerTS is the runtime timestamp of the entry's first line
	// when it carried an RFC3339 one.
	ContainerTS string `json:"container_ts,omitempty"`

	// Line may span several physical lines joined with '\n'.
	Line string `json:"line"`
}

// Dedup joins a registration snapshot with the live queue. Live
// events at or below the snapshot's last Seq were already delivered
// through the snapshot and are dropped; everything newer passes, in
// whatever order it arrives.
type Dedup struct {
	cutoff uint64
}

// NewDedup returns a Dedup for the snapshot returned alongside a
// client by [Hub.RegisterClient].
func NewDedup(snapshot []LogEvent) Dedup {
	if len(snapshot) == 0 {
		return Dedup{}
	}
	return Dedup{cutoff: snapshot[len(snapshot)-1].Seq}
}

// Accept reports whether a live event was not already part of the
// snapshot.
func (d Dedup) Accept(event LogEvent) bool {
	return event.Seq > d.cutoff
}
