// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package trafficgraph

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/sanelens/sanelens/lib/traffic"
)

// DefaultWindow is the number of recent durations kept per edge for
// percentile estimates.
const DefaultWindow = 256

// EdgeKind discriminates EdgeKey.
type EdgeKind string

const (
	EdgeFlow EdgeKind = "flow"
	EdgeHTTP EdgeKind = "http"
)

// EdgeKey identifies an edge. Flow edges use Transport and Port; http
// edges use Method and Route. Endpoints that were not resolved are
// [traffic.Unknown].
type EdgeKey struct {
	Kind      EdgeKind          `json:"kind"`
	From      traffic.EntityID  `json:"from"`
	To        traffic.EntityID  `json:"to"`
	Transport traffic.Transport `json:"transport,omitempty"`
	Port      uint16            `json:"port,omitempty"`
	Method    string            `json:"method,omitempty"`
	Route     string            `json:"route,omitempty"`
}

// EdgeStats are the running totals of an edge. Percentiles are nil
// until a duration has been seen.
type EdgeStats struct {
	Count      uint64             `json:"count"`
	BytesIn    uint64             `json:"bytes_in"`
	BytesOut   uint64             `json:"bytes_out"`
	Errors     uint64             `json:"errors"`
	P50MS      *uint64            `json:"p50_ms,omitempty"`
	P95MS      *uint64            `json:"p95_ms,omitempty"`
	Visibility traffic.Visibility `json:"visibility"`
}

// Edge is one row of a snapshot.
type Edge struct {
	Key        EdgeKey   `json:"key"`
	Stats      EdgeStats `json:"stats"`
	LastSeenMS uint64    `json:"last_seen_ms"`
}

type edgeState struct {
	stats    EdgeStats
	lastSeen uint64

	durations []uint64
	next      int
}

// Graph accumulates edges. Safe for concurrent use.
type Graph struct {
	window int

	mu    sync.Mutex
	edges map[EdgeKey]*edgeState
}

// New returns an empty graph keeping window durations per edge. A
// non-positive window selects DefaultWindow.
func New(window int) *Graph {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Graph{window: window, edges: make(map[EdgeKey]*edgeState)}
}

// Consume implements traffic.Sink. It never fails.
func (g *Graph) Consume(observation traffic.Observation) error {
	key, ok := keyOf(observation)
	if !ok {
		return nil
	}

	var bytesIn, bytesOut, duration *uint64
	var serverError bool
	switch observation.Kind {
	case traffic.KindHTTP:
		http := observation.HTTP
		bytesIn, bytesOut, duration = http.BytesIn, http.BytesOut, http.DurationMS
		serverError = http.Status != nil && *http.Status >= 500
	case traffic.KindFlow:
		metrics := observation.Flow.Metrics
		bytesIn, bytesOut, duration = metrics.BytesIn, metrics.BytesOut, metrics.DurationMS
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	state, exists := g.edges[key]
	if !exists {
		state = &edgeState{}
		g.edges[key] = state
	}
	state.stats.Count++
	if bytesIn != nil {
		state.stats.BytesIn += *bytesIn
	}
	if bytesOut != nil {
		state.stats.BytesOut += *bytesOut
	}
	if serverError {
		state.stats.Errors++
	}
	if visibility := observation.Attrs().Visibility; visibility.Richer(state.stats.Visibility) {
		state.stats.Visibility = visibility
	}
	state.lastSeen = max(state.lastSeen, observation.AtMS())
	if duration != nil {
		g.recordDuration(state, *duration)
	}
	return nil
}

func (g *Graph) recordDuration(state *edgeState, duration uint64) {
	if len(state.durations) < g.window {
		state.durations = append(state.durations, duration)
		return
	}
	state.durations[state.next] = duration
	state.next = (state.next + 1) % g.window
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.edges)
}

// Snapshot returns every edge, ordered by key.
func (g *Graph) Snapshot() []Edge {
	g.mu.Lock()
	edges := make([]Edge, 0, len(g.edges))
	for key, state := range g.edges {
		stats := state.stats
		if len(state.durations) > 0 {
			sorted := slices.Clone(state.durations)
			slices.Sort(sorted)
			p50, p95 := percentile(sorted, 50), percentile(sorted, 95)
			stats.P50MS, stats.P95MS = &p50, &p95
		}
		edges = append(edges, Edge{Key: key, Stats: stats, LastSeenMS: state.lastSeen})
	}
	g.mu.Unlock()

	slices.SortFunc(edges, func(a, b Edge) int { return compareKeys(a.Key, b.Key) })
	return edges
}

// percentile returns the nearest-rank percentile of a sorted,
// non-empty slice.
func percentile(sorted []uint64, p int) uint64 {
	rank := (p*len(sorted) + 99) / 100
	return sorted[max(rank, 1)-1]
}

func keyOf(observation traffic.Observation) (EdgeKey, bool) {
	peer := observation.Peer()
	key := EdgeKey{From: entityOrUnknown(peer.Src), To: entityOrUnknown(peer.Dst)}
	switch observation.Kind {
	case traffic.KindHTTP:
		key.Kind = EdgeHTTP
		if method := observation.HTTP.Method; method != nil {
			key.Method = *method
		}
		if path := observation.HTTP.Path; path != nil {
			key.Route = routeOf(*path)
		}
	case traffic.KindFlow:
		key.Kind = EdgeFlow
		key.Transport = observation.Flow.Flow.Transport
		key.Port = observation.Flow.Flow.Dst.Port
	default:
		return EdgeKey{}, false
	}
	return key, true
}

func entityOrUnknown(entity *traffic.EntityID) traffic.EntityID {
	if entity == nil {
		return traffic.Unknown()
	}
	return *entity
}

// routeOf drops the query string so that one endpoint is one edge.
func routeOf(path string) string {
	route, _, _ := strings.Cut(path, "?")
	return route
}

func compareKeys(a, b EdgeKey) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		compareEntities(a.From, b.From),
		compareEntities(a.To, b.To),
		cmp.Compare(a.Transport, b.Transport),
		cmp.Compare(a.Port, b.Port),
		cmp.Compare(a.Method, b.Method),
		cmp.Compare(a.Route, b.Route),
	)
}

func compareEntities(a, b traffic.EntityID) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.Instance, b.Instance),
		a.IP.Compare(b.IP),
		cmp.Compare(a.DNSName, b.DNSName),
	)
}
