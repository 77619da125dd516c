// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sanelens/sanelens/lib/codec"
)

// Sink consumes observations. An error stops the Tap feeding it.
type Sink interface {
	Consume(observation Observation) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(observation Observation) error

// Consume calls f.
func (f SinkFunc) Consume(observation Observation) error { return f(observation) }

// MultiSink feeds every observation to each sink in order and joins
// their errors.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(observation Observation) error {
		var errs []error
		for _, sink := range sinks {
			if err := sink.Consume(observation); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Format selects an EncoderSink wire format.
type Format string

const (
	// FormatJSON writes one JSON document per line.
	FormatJSON Format = "json"
	// FormatCBOR writes a CBOR sequence (RFC 8742).
	FormatCBOR Format = "cbor"
)

// EncoderSink streams observations to a writer. Safe for concurrent
// use.
type EncoderSink struct {
	mu     sync.Mutex
	encode func(any) error
}

// NewEncoderSink returns a sink writing format to w.
func NewEncoderSink(w io.Writer, format Format) (*EncoderSink, error) {
	switch format {
	case FormatJSON:
		return &EncoderSink{encode: json.NewEncoder(w).Encode}, nil
	case FormatCBOR:
		return &EncoderSink{encode: codec.NewEncoder(w).Encode}, nil
	}
	return nil, fmt.Errorf("unknown observation format %q (want json or cbor)", format)
}

// Consume implements Sink.
func (s *EncoderSink) Consume(observation Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encode(observation); err != nil {
		return fmt.Errorf("encoding observation: %w", err)
	}
	return nil
}
