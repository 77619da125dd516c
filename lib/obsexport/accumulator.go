// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package obsexport

import (
	"sync"

	"github.com/sanelens/sanelens/lib/traffic"
)

// Batch is the unit written to a frame.
type Batch struct {
	Sequence     uint64                `json:"sequence"`
	Observations []traffic.Observation `json:"observations"`
}

// Accumulator collects observations and hands them out as batches.
// Safe for concurrent use.
type Accumulator struct {
	mu           sync.Mutex
	observations []traffic.Observation
	sequence     uint64
	threshold    int
}

// NewAccumulator returns an Accumulator whose Add reports true once
// threshold observations are pending. A threshold of 0 disables
// count-based flushing.
func NewAccumulator(threshold int) *Accumulator {
	return &Accumulator{threshold: threshold}
}

// Add appends an observation and reports whether the caller should
// flush.
func (a *Accumulator) Add(observation traffic.Observation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observations = append(a.observations, observation)
	return a.threshold > 0 && len(a.observations) >= a.threshold
}

// Flush drains the pending observations into a batch, or returns nil
// if nothing is pending. Each non-nil batch takes the next sequence
// number.
func (a *Accumulator) Flush() *Batch {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.observations) == 0 {
		return nil
	}
	batch := &Batch{Sequence: a.sequence, Observations: a.observations}
	a.observations = nil
	a.sequence++
	return batch
}

// Len returns the number of pending observations.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.observations)
}

// Sequence returns the sequence number the next batch will carry.
func (a *Accumulator) Sequence() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sequence
}
