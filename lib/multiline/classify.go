// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package multiline

import (
	"strings"

	"github.com/valyala/fastjson"
)

// Decision is a classifier's opinion about a line.
type Decision int

const (
	// NoOpinion leaves the boundary decision to the gap signals; the
	// line continues the current entry.
	NoOpinion Decision = iota

	// StartNew begins a new entry with this line.
	StartNew
)

func (d Decision) String() string {
	switch d {
	case StartNew:
		return "start-new"
	default:
		return "no-opinion"
	}
}

// Ruling is the combined result of the classifier set. Complete is only
// meaningful with StartNew: the line is a whole entry on its own.
type Ruling struct {
	Decision Decision
	Complete bool
}

// classifier returns ok=false when it has nothing to say about content.
type classifier func(content string) (ruling Ruling, ok bool)

// classifiers is evaluated in order; the first classifier that speaks
// decides.
var classifiers = []classifier{
	classifyJSON,
	classifyTokenSignal,
}

// Classify runs the classifier set against content, which is the line
// with any outer timestamp already removed.
func Classify(content string) Ruling {
	for _, classify := range classifiers {
		if ruling, ok := classify(content); ok {
			return ruling
		}
	}
	return Ruling{Decision: NoOpinion}
}

func classifyJSON(content string) (Ruling, bool) {
	candidate := strings.TrimSpace(content)
	if len(candidate) < 2 {
		return Ruling{}, false
	}
	first, last := candidate[0], candidate[len(candidate)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return Ruling{}, false
	}
	if fastjson.Validate(candidate) != nil {
		return Ruling{}, false
	}
	return Ruling{Decision: StartNew, Complete: true}, true
}

// leadingTokenLimit bounds how far into a line the token signals look.
const leadingTokenLimit = 5

var severityLevels = []string{
	"TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "FATAL", "CRITICAL", "PANIC",
}

func classifyTokenSignal(content string) (Ruling, bool) {
	if hasStartSignal(content) {
		return Ruling{Decision: StartNew}, true
	}
	return Ruling{}, false
}

func hasStartSignal(content string) bool {
	tokens := strings.Fields(content)
	if len(tokens) > leadingTokenLimit {
		tokens = tokens[:leadingTokenLimit]
	}
	if len(tokens) == 0 {
		return false
	}

	for _, token := range tokens {
		if containsDateTime(token) {
			return true
		}
	}
	for i := 1; i < len(tokens); i++ {
		if containsDate(tokens[i-1]) && containsTime(tokens[i]) {
			return true
		}
	}
	for _, token := range tokens {
		if hasSeverity(token) {
			return true
		}
	}
	return false
}

// hasSeverity reports whether the first alphabetic run in token is a
// severity level, so "[ERROR]" and "warn:" both count.
func hasSeverity(token string) bool {
	start := strings.IndexFunc(token, isASCIILetter)
	if start < 0 {
		return false
	}
	end := start
	for end < len(token) && isASCIILetter(rune(token[end])) {
		end++
	}
	word := token[start:end]
	for _, level := range severityLevels {
		if strings.EqualFold(word, level) {
			return true
		}
	}
	return false
}

func containsDateTime(token string) bool {
	for i := 0; i+10 < len(token); i++ {
		end, ok := matchDate(token, i)
		if !ok {
			continue
		}
		if token[end] != 'T' && token[end] != 't' {
			continue
		}
		if _, ok := matchTime(token, end+1); ok {
			return true
		}
	}
	return false
}

func containsDate(token string) bool {
	for i := 0; i+9 < len(token); i++ {
		if _, ok := matchDate(token, i); ok {
			return true
		}
	}
	return false
}

func containsTime(token string) bool {
	for i := 0; i+7 < len(token); i++ {
		if _, ok := matchTime(token, i); ok {
			return true
		}
	}
	return false
}

// matchDate matches DDDD?DD?DD at i, where ? is '-' or '/', and returns
// the index just past it.
func matchDate(s string, i int) (int, bool) {
	if i+9 >= len(s) {
		return 0, false
	}
	if !digits(s, i, 4) || !isDateSeparator(s[i+4]) ||
		!digits(s, i+5, 2) || !isDateSeparator(s[i+7]) ||
		!digits(s, i+8, 2) {
		return 0, false
	}
	return i + 10, true
}

// matchTime matches HH:MM:SS at i with an optional '.' or ',' fraction
// and an optional Z or ±HH:MM zone, returning the index just past it. A
// fraction separator with no digits after it is not a time.
func matchTime(s string, i int) (int, bool) {
	if i+7 >= len(s) {
		return 0, false
	}
	if !digits(s, i, 2) || s[i+2] != ':' ||
		!digits(s, i+3, 2) || s[i+5] != ':' ||
		!digits(s, i+6, 2) {
		return 0, false
	}
	end := i + 8
	if end < len(s) && (s[end] == '.' || s[end] == ',') {
		end++
		fractionStart := end
		for end < len(s) && isDigit(s[end]) {
			end++
		}
		if end == fractionStart {
			return 0, false
		}
	}
	if end < len(s) {
		switch s[end] {
		case 'Z', 'z':
			end++
		case '+', '-':
			if end+5 < len(s) && digits(s, end+1, 2) && s[end+3] == ':' && digits(s, end+4, 2) {
				end += 6
			}
		}
	}
	return end, true
}

func digits(s string, i, n int) bool {
	if i+n > len(s) {
		return false
	}
	for j := i; j < i+n; j++ {
		if !isDigit(s[j]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDateSeparator(b byte) bool { return b == '-' || b == '/' }

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
