// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package trafficgraph

import (
	"sync"
	"testing"

	"github.com/sanelens/sanelens/lib/traffic"
)

func ptr[T any](v T) *T { return &v }

func observe(t *testing.T, record traffic.AccessLog, service string, egress bool, atMS uint64) traffic.Observation {
	t.Helper()
	observation, ok := traffic.Observe(record, service, nil, egress, atMS)
	if !ok {
		t.Fatalf("Observe dropped %+v", record)
	}
	return observation
}

func TestGraphAggregatesHTTPEdge(t *testing.T) {
	t.Parallel()

	graph := New(0)
	for i, status := range []uint16{200, 503, 200, 500} {
		observation := observe(t, traffic.AccessLog{
			Method:        ptr("GET"),
			Path:          ptr("/orders?page=" + string(rune('1'+i))),
			ResponseCode:  ptr(status),
			DurationMS:    ptr(uint64(10 * (i + 1))),
			BytesReceived: ptr(uint64(5)),
			BytesSent:     ptr(uint64(50)),
		}, "orders", false, uint64(1000+i))
		if err := graph.Consume(observation); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}

	edges := graph.Snapshot()
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1: %+v", len(edges), edges)
	}
	edge := edges[0]
	wantKey := EdgeKey{
		Kind:   EdgeHTTP,
		From:   traffic.Unknown(),
		To:     traffic.Workload("orders", ""),
		Method: "GET",
		Route:  "/orders",
	}
	if edge.Key != wantKey {
		t.Errorf("key: got %+v, want %+v", edge.Key, wantKey)
	}
	stats := edge.Stats
	if stats.Count != 4 || stats.Errors != 2 || stats.BytesIn != 20 || stats.BytesOut != 200 {
		t.Errorf("totals: got %+v", stats)
	}
	if stats.P50MS == nil || *stats.P50MS != 20 {
		t.Errorf("p50: got %v, want 20", stats.P50MS)
	}
	if stats.P95MS == nil || *stats.P95MS != 40 {
		t.Errorf("p95: got %v, want 40", stats.P95MS)
	}
	if stats.Visibility != traffic.L7Semantics {
		t.Errorf("visibility: got %s", stats.Visibility)
	}
	if edge.LastSeenMS != 1003 {
		t.Errorf("last seen: got %d, want 1003", edge.LastSeenMS)
	}
}

func TestGraphFlowEdgesKeyOnDestinationPort(t *testing.T) {
	t.Parallel()

	graph := New(0)
	for _, upstream := range []string{"10.0.0.9:5432", "10.0.0.9:5432", "10.0.0.9:6379"} {
		graph.Consume(observe(t, traffic.AccessLog{
			DownstreamRemoteAddress: ptr("10.0.0.5:51000"),
			UpstreamHost:            ptr(upstream),
		}, "db", false, 1))
	}

	edges := graph.Snapshot()
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].Key.Port != 5432 || edges[0].Stats.Count != 2 {
		t.Errorf("first edge: got %+v", edges[0])
	}
	if edges[1].Key.Port != 6379 || edges[1].Stats.Count != 1 {
		t.Errorf("second edge: got %+v", edges[1])
	}
	for _, edge := range edges {
		if edge.Key.Kind != EdgeFlow || edge.Key.Transport != traffic.TCP {
			t.Errorf("flow key: got %+v", edge.Key)
		}
		if edge.Stats.P50MS != nil {
			t.Errorf("percentile without durations: got %d", *edge.Stats.P50MS)
		}
		if edge.Stats.Visibility != traffic.L4Flow {
			t.Errorf("visibility: got %s", edge.Stats.Visibility)
		}
	}
}

func TestGraphSnapshotOrder(t *testing.T) {
	t.Parallel()

	graph := New(0)
	graph.Consume(observe(t, traffic.AccessLog{Method: ptr("GET"), Path: ptr("/b")}, "web", false, 1))
	graph.Consume(observe(t, traffic.AccessLog{
		DownstreamRemoteAddress: ptr("10.0.0.5:51000"),
		UpstreamHost:            ptr("10.0.0.9:80"),
	}, "web", false, 1))
	graph.Consume(observe(t, traffic.AccessLog{Method: ptr("GET"), Path: ptr("/a")}, "web", false, 1))
	graph.Consume(observe(t, traffic.AccessLog{Method: ptr("GET"), Path: ptr("/a")}, "api", false, 1))

	var got []string
	for _, edge := range graph.Snapshot() {
		got = append(got, string(edge.Key.Kind)+" "+edge.Key.To.String()+" "+edge.Key.Route)
	}
	want := []string{"flow web ", "http api /a", "http web /a", "http web /b"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGraphWindowKeepsRecentDurations(t *testing.T) {
	t.Parallel()

	graph := New(4)
	for _, duration := range []uint64{1000, 1000, 1000, 1000, 1, 2, 3, 4} {
		graph.Consume(observe(t, traffic.AccessLog{Method: ptr("GET"), DurationMS: ptr(duration)}, "web", false, 1))
	}

	stats := graph.Snapshot()[0].Stats
	if *stats.P50MS != 2 || *stats.P95MS != 4 {
		t.Errorf("percentiles: got p50=%d p95=%d, want 2 and 4", *stats.P50MS, *stats.P95MS)
	}
	if stats.Count != 8 {
		t.Errorf("count: got %d, want 8", stats.Count)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sorted []uint64
		p      int
		want   uint64
	}{
		{[]uint64{7}, 50, 7},
		{[]uint64{7}, 95, 7},
		{[]uint64{1, 2}, 50, 1},
		{[]uint64{1, 2}, 95, 2},
		{[]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 50, 5},
		{[]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 95, 10},
	}
	for _, test := range tests {
		if got := percentile(test.sorted, test.p); got != test.want {
			t.Errorf("percentile(%v, %d): got %d, want %d", test.sorted, test.p, got, test.want)
		}
	}
}

func TestGraphConcurrentConsume(t *testing.T) {
	t.Parallel()

	graph := New(0)
	observation := observe(t, traffic.AccessLog{Method: ptr("GET"), Path: ptr("/")}, "web", false, 1)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				graph.Consume(observation)
			}
		})
	}
	wg.Wait()

	if count := graph.Snapshot()[0].Stats.Count; count != 800 {
		t.Errorf("count: got %d, want 800", count)
	}
	if graph.Len() != 1 {
		t.Errorf("Len: got %d, want 1", graph.Len())
	}
}
