// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package multiline

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// outerTimestamp is the runtime-supplied RFC3339 prefix of a line.
type outerTimestamp struct {
	raw     string
	epochMS int64
	present bool
}

// splitOuterTimestamp separates a leading RFC3339 token from the rest
// of the line. The split happens at the first whitespace character;
// anything after it, including further indentation, is content. A line
// that is nothing but a timestamp has empty content. A line whose
// leading token is not RFC3339 is returned whole.
func splitOuterTimestamp(line string) (outerTimestamp, string) {
	cut := strings.IndexFunc(line, unicode.IsSpace)
	if cut < 0 {
		if epochMS, ok := parseRFC3339Millis(line); ok {
			return outerTimestamp{raw: line, epochMS: epochMS, present: true}, ""
		}
		return outerTimestamp{}, line
	}

	token := line[:cut]
	epochMS, ok := parseRFC3339Millis(token)
	if !ok {
		return outerTimestamp{}, line
	}
	_, width := utf8.DecodeRuneInString(line[cut:])
	return outerTimestamp{raw: token, epochMS: epochMS, present: true}, line[cut+width:]
}

// parseRFC3339Millis accepts RFC 3339 date-times, including the
// lowercase "t" and "z" the RFC permits. time.Parse takes a comma as
// the fraction separator, which RFC 3339 does not, so it is rejected
// here.
func parseRFC3339Millis(value string) (int64, bool) {
	if value == "" || strings.IndexByte(value, ',') >= 0 {
		return 0, false
	}
	parsed, err := time.Parse(time.RFC3339, strings.ToUpper(value))
	if err != nil {
		return 0, false
	}
	return parsed.UnixMilli(), true
}
