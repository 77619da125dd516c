// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logworker

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// c1CSI is the single-byte 8-bit Control Sequence Introducer.
const c1CSI = 0x9b

// StripControl removes ANSI escape sequences from a raw line and
// returns it as valid UTF-8. A stray 0x9b byte that is not part of a
// UTF-8 sequence is the 8-bit CSI and is treated as ESC '['. Invalid
// UTF-8 is replaced with U+FFFD.
func StripControl(raw []byte) string {
	if bytes.IndexByte(raw, 0x1b) < 0 && bytes.IndexByte(raw, c1CSI) < 0 {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return strings.ToValidUTF8(ansi.Strip(string(normalizeCSI(raw))), "\uFFFD")
}

func normalizeCSI(raw []byte) []byte {
	if bytes.IndexByte(raw, c1CSI) < 0 {
		return raw
	}
	normalized := make([]byte, 0, len(raw)+8)
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 && raw[i] == c1CSI {
			normalized = append(normalized, 0x1b, '[')
		} else {
			normalized = append(normalized, raw[i:i+size]...)
		}
		i += size
	}
	return normalized
}
