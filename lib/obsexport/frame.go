// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package obsexport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sanelens/sanelens/lib/codec"
)

// MaxFrameSize bounds both the frame length and the uncompressed
// payload length a reader will accept.
const MaxFrameSize = 64 << 20

// frameHeaderSize is the compression tag plus the uncompressed length.
const frameHeaderSize = 1 + 4

// ErrFrameTooLarge is returned when a frame or its decoded payload
// would exceed MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// EncodeFrame serializes batch into one complete frame.
func EncodeFrame(batch *Batch, preferred Compression) ([]byte, error) {
	raw, err := codec.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding batch %d: %w", batch.Sequence, err)
	}
	if len(raw) > MaxFrameSize {
		return nil, fmt.Errorf("batch %d is %d bytes: %w", batch.Sequence, len(raw), ErrFrameTooLarge)
	}
	payload, tag, err := compress(raw, preferred)
	if err != nil {
		return nil, fmt.Errorf("compressing batch %d: %w", batch.Sequence, err)
	}

	frame := make([]byte, 4+frameHeaderSize, 4+frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(frameHeaderSize+len(payload)))
	frame[4] = byte(tag)
	binary.LittleEndian.PutUint32(frame[5:9], uint32(len(raw)))
	return append(frame, payload...), nil
}

// ReadFrame reads one frame from r and decodes its batch. It returns
// io.EOF when r ends cleanly between frames and io.ErrUnexpectedEOF
// when it ends inside one.
func ReadFrame(r io.Reader) (*Batch, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(prefix[:])
	if length < frameHeaderSize {
		return nil, fmt.Errorf("frame length %d is shorter than its header", length)
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame length %d: %w", length, ErrFrameTooLarge)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading frame body: %w", err)
	}

	tag := Compression(body[0])
	uncompressedSize := binary.LittleEndian.Uint32(body[1:5])
	if uncompressedSize > MaxFrameSize {
		return nil, fmt.Errorf("uncompressed length %d: %w", uncompressedSize, ErrFrameTooLarge)
	}
	raw, err := decompress(body[frameHeaderSize:], tag, int(uncompressedSize))
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := codec.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}
	return &batch, nil
}
