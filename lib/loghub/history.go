// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package loghub

// history is a fixed-capacity circular buffer of events. When full, a
// push overwrites the oldest event. Callers hold the hub lock.
type history struct {
	events []LogEvent
	// next is the slot the next push writes to.
	next int
	// stored is min(total pushes, capacity).
	stored int
}

func newHistory(capacity int) *history {
	return &history{events: make([]LogEvent, capacity)}
}

func (h *history) push(event LogEvent) {
	h.events[h.next] = event
	h.next = (h.next + 1) % len(h.events)
	if h.stored < len(h.events) {
		h.stored++
	}
}

// snapshot copies the retained events, oldest first.
func (h *history) snapshot() []LogEvent {
	result := make([]LogEvent, 0, h.stored)
	oldest := (h.next - h.stored + len(h.events)) % len(h.events)
	for i := 0; i < h.stored; i++ {
		result = append(result, h.events[(oldest+i)%len(h.events)])
	}
	return result
}

func (h *history) len() int { return h.stored }
