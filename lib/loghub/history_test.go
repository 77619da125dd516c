// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package loghub

import "testing"

func TestHistoryWraps(t *testing.T) {
	t.Parallel()

	ring := newHistory(3)
	if got := ring.snapshot(); len(got) != 0 {
		t.Fatalf("empty snapshot: got %d events", len(got))
	}

	for seq := uint64(1); seq <= 7; seq++ {
		ring.push(LogEvent{Seq: seq})
		wantLen := int(min(seq, 3))
		if ring.len() != wantLen {
			t.Fatalf("after push %d: len %d, want %d", seq, ring.len(), wantLen)
		}
		snapshot := ring.snapshot()
		for i, event := range snapshot {
			want := seq - uint64(wantLen) + 1 + uint64(i)
			if event.Seq != want {
				t.Errorf("after push %d: snapshot[%d].Seq = %d, want %d", seq, i, event.Seq, want)
			}
		}
	}
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	t.Parallel()

	ring := newHistory(2)
	ring.push(LogEvent{Seq: 1, Line: "original"})
	snapshot := ring.snapshot()
	snapshot[0].Line = "mutated"
	if got := ring.snapshot()[0].Line; got != "original" {
		t.Errorf("ring contents changed through snapshot: %q", got)
	}
}
