// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package multiline

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    Ruling
	}{
		{"json object", `{"level":"info","msg":"ready"}`, Ruling{StartNew, true}},
		{"json array padded", `  [1, 2, 3]  `, Ruling{StartNew, true}},
		{"empty object", `{}`, Ruling{StartNew, true}},
		{"braces but invalid json", `{not json}`, Ruling{NoOpinion, false}},
		{"mismatched pair", `{"a":1]`, Ruling{NoOpinion, false}},
		{"invalid json with severity falls through", `{ERROR: disk}`, Ruling{StartNew, false}},
		{"embedded datetime", `ts=2024-05-01T10:11:12.345+02:00 msg=hi`, Ruling{StartNew, false}},
		{"lowercase t and z", `2024/05/01t10:11:12z boot`, Ruling{StartNew, false}},
		{"date then time tokens", `2024-05-01 10:11:12,123 worker started`, Ruling{StartNew, false}},
		{"severity bracketed", `[WARN] cache miss`, Ruling{StartNew, false}},
		{"severity lowercase with colon", `error: connection refused`, Ruling{StartNew, false}},
		{"severity warning", `WARNING low disk`, Ruling{StartNew, false}},
		{"severity in fifth token", `a b c d critical`, Ruling{StartNew, false}},
		{"severity beyond token limit", `a b c d e ERROR`, Ruling{NoOpinion, false}},
		{"severity not leading run", `x-info`, Ruling{NoOpinion, false}},
		{"severity prefix of longer word", `information only`, Ruling{NoOpinion, false}},
		{"stack frame", `    at com.example.Main.run(Main.java:42)`, Ruling{NoOpinion, false}},
		{"bare date alone", `2024-05-01 something`, Ruling{NoOpinion, false}},
		{"fraction without digits", `2024-05-01T10:11:12. x`, Ruling{NoOpinion, false}},
		{"empty", ``, Ruling{NoOpinion, false}},
		{"whitespace only", "   \t ", Ruling{NoOpinion, false}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(test.content); got != test.want {
				t.Errorf("Classify(%q): got %+v, want %+v", test.content, got, test.want)
			}
		})
	}
}

func TestMatchTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantEnd int
		wantOK  bool
	}{
		{"10:11:12x", 8, true},
		{"10:11:12.5x", 10, true},
		{"10:11:12,123x", 12, true},
		{"10:11:12Zx", 9, true},
		{"10:11:12+05:30x", 14, true},
		{"10:11:12+05x", 8, true},
		{"10:11:1", 0, false},
		{"10-11-12x", 0, false},
	}
	for _, test := range tests {
		end, ok := matchTime(test.input, 0)
		if ok != test.wantOK || end != test.wantEnd {
			t.Errorf("matchTime(%q): got (%d, %v), want (%d, %v)", test.input, end, ok, test.wantEnd, test.wantOK)
		}
	}
}

func TestSplitOuterTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		line        string
		wantRaw     string
		wantContent string
		wantMS      int64
	}{
		{"timestamp and content", "2024-01-01T00:00:00Z started", "2024-01-01T00:00:00Z", "started", 1704067200000},
		{"fractional", "2024-01-01T00:00:00.250Z x", "2024-01-01T00:00:00.250Z", "x", 1704067200250},
		{"indentation kept", "2024-01-01T00:00:01Z \tat foo", "2024-01-01T00:00:01Z", "\tat foo", 1704067201000},
		{"timestamp only", "2024-01-01T00:00:00+01:00", "2024-01-01T00:00:00+01:00", "", 1704063600000},
		{"not a timestamp", "hello world", "", "hello world", 0},
		{"leading whitespace", "  at foo.rs:10", "", "  at foo.rs:10", 0},
		{"date without zone", "2024-01-01T00:00:00 x", "", "2024-01-01T00:00:00 x", 0},
		{"lowercase separators", "2024-01-01t00:00:00.5z x", "2024-01-01t00:00:00.5z", "x", 1704067200500},
		{"comma fraction", "2024-01-01T00:00:00,123Z x", "", "2024-01-01T00:00:00,123Z x", 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			outer, content := splitOuterTimestamp(test.line)
			if outer.raw != test.wantRaw {
				t.Errorf("raw: got %q, want %q", outer.raw, test.wantRaw)
			}
			if outer.present != (test.wantRaw != "") {
				t.Errorf("present: got %v", outer.present)
			}
			if content != test.wantContent {
				t.Errorf("content: got %q, want %q", content, test.wantContent)
			}
			if outer.epochMS != test.wantMS {
				t.Errorf("epochMS: got %d, want %d", outer.epochMS, test.wantMS)
			}
		})
	}
}
