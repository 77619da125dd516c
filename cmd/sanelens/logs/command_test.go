// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sanelens/sanelens/lib/config"
	"github.com/sanelens/sanelens/lib/loghub"
)

const apiLog = "2026-01-01T00:00:00Z ERROR boom\n" +
	"2026-01-01T00:00:00Z   at main.go:1\n" +
	"2026-01-01T00:00:01Z INFO ok\n"

func writeSources(t *testing.T) []source {
	t.Helper()
	directory := t.TempDir()
	files := map[string]string{"api": apiLog, "worker": "starting\n"}
	var sources []source
	for _, name := range []string{"api", "worker"} {
		path := filepath.Join(directory, name+".log")
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			t.Fatal(err)
		}
		sources = append(sources, source{name: name, path: path})
	}
	return sources
}

func testLogsConfig(color string) config.LogsConfig {
	logs := config.Default().Logs
	logs.Console.Color = color
	// Generous so that scheduler delays never split an entry.
	logs.MaxGap = time.Minute
	return logs
}

func TestRunJSONEmitsMergedEvents(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	logger := slog.New(slog.DiscardHandler)
	if err := run(context.Background(), testLogsConfig("never"), true, writeSources(t), &output, logger); err != nil {
		t.Fatalf("run: %v", err)
	}

	byService := make(map[string][]loghub.LogEvent)
	var lastSeq uint64
	scanner := bufio.NewScanner(&output)
	for scanner.Scan() {
		var event loghub.LogEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("decoding %q: %v", scanner.Text(), err)
		}
		if event.Seq <= lastSeq {
			t.Errorf("seq %d after %d", event.Seq, lastSeq)
		}
		lastSeq = event.Seq
		byService[event.Service] = append(byService[event.Service], event)
	}

	api := byService["api"]
	if len(api) != 2 {
		t.Fatalf("api events: got %d, want 2: %+v", len(api), api)
	}
	if api[0].Line != "2026-01-01T00:00:00Z ERROR boom\n  at main.go:1" {
		t.Errorf("first api entry: got %q", api[0].Line)
	}
	if api[0].ContainerTS != "2026-01-01T00:00:00Z" {
		t.Errorf("first api container_ts: got %q", api[0].ContainerTS)
	}
	if api[1].Line != "2026-01-01T00:00:01Z INFO ok" {
		t.Errorf("second api entry: got %q", api[1].Line)
	}

	worker := byService["worker"]
	if len(worker) != 1 || worker[0].Line != "starting" || worker[0].ContainerTS != "" {
		t.Errorf("worker events: got %+v", worker)
	}
	if lastSeq != 3 {
		t.Errorf("last seq: got %d, want 3", lastSeq)
	}
}

func TestRunConsoleHidesTimestamps(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	logger := slog.New(slog.DiscardHandler)
	if err := run(context.Background(), testLogsConfig("never"), false, writeSources(t), &output, logger); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := output.String()
	for _, want := range []string{
		"api    | ERROR boom\napi    |   at main.go:1\n",
		"api    | INFO ok\n",
		"worker | starting\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Errorf("colour escape with color=never:\n%q", text)
	}
}

func TestRunSkipsMissingSource(t *testing.T) {
	t.Parallel()

	sources := append(writeSources(t), source{name: "ghost", path: filepath.Join(t.TempDir(), "missing.log")})
	var output bytes.Buffer
	if err := run(context.Background(), testLogsConfig("never"), true, sources, &output, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lines := strings.Count(output.String(), "\n"); lines != 3 {
		t.Errorf("events: got %d, want 3", lines)
	}
}

func TestParamsApplyOverridesOnlyGivenFlags(t *testing.T) {
	t.Parallel()

	logs := config.Default().Logs
	params := logsParams{History: 10, Color: "always"}
	params.apply(&logs)

	if logs.HistorySize != 10 || logs.Console.Color != "always" {
		t.Errorf("overrides not applied: %+v", logs)
	}
	if logs.MaxGap != config.Default().Logs.MaxGap || logs.Console.Timestamps {
		t.Errorf("unset flags changed config: %+v", logs)
	}
}

func TestViewKeepsOutOfOrderLiveEvents(t *testing.T) {
	t.Parallel()

	hub := loghub.New(4, loghub.WithClientQueueSize(8))
	hub.Publish("api", "one", "")
	hub.Publish("api", "two", "")
	client, history := hub.RegisterClient()
	defer client.Close()

	// Publishers race between sequence assignment and delivery, so the
	// queue can hold a later Seq ahead of an earlier one.
	hub.Publish("api", "three", "")
	hub.Publish("worker", "four", "")
	three := <-client.Events()
	four := <-client.Events()

	var seqs []uint64
	render := func(event loghub.LogEvent) error {
		seqs = append(seqs, event.Seq)
		return nil
	}
	live := make(chan loghub.LogEvent, 4)
	live <- four
	live <- three
	live <- history[1]

	producersDone := make(chan struct{})
	close(producersDone)
	if err := viewEvents(live, history, render, producersDone); err != nil {
		t.Fatalf("viewEvents: %v", err)
	}

	want := []uint64{1, 2, 4, 3}
	if len(seqs) != len(want) {
		t.Fatalf("rendered seqs: got %v, want %v", seqs, want)
	}
	for i := range want {
		if seqs[i] != want[i] {
			t.Fatalf("rendered seqs: got %v, want %v", seqs, want)
		}
	}
}
