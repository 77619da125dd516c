// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logworker

import "testing"

func TestStripControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"sgr colour", "\x1b[31mERROR\x1b[0m failed", "ERROR failed"},
		{"8-bit csi", "\x9b1mbold\x9b0m text", "bold text"},
		{"osc title", "\x1b]0;title\x07visible", "visible"},
		{"tab kept", "\tat main.go:1", "\tat main.go:1"},
		{"utf8 containing 0x9b byte", "Û ok", "Û ok"},
		{"invalid utf8", "bad \xff byte", "bad � byte"},
		{"empty", "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := StripControl([]byte(test.raw)); got != test.want {
				t.Errorf("StripControl(%q): got %q, want %q", test.raw, got, test.want)
			}
		})
	}
}
