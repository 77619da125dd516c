// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package loghub

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultClientQueueSize is the per-viewer queue depth.
const DefaultClientQueueSize = 512

// Hub is the broadcast point between stream workers and viewers. Create
// one with New and share the pointer; it is safe for concurrent use.
type Hub struct {
	sequence atomic.Uint64

	queueSize int
	logger    *slog.Logger

	mu           sync.Mutex
	history      *history
	clients      map[uint64]*Client
	nextClientID uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithClientQueueSize sets the queue depth for clients registered
// afterwards. Non-positive values are ignored.
func WithClientQueueSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.queueSize = size
		}
	}
}

// WithLogger sets the logger used for client lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Hub retaining the most recent historySize events.
// Panics if historySize is not positive.
func New(historySize int, options ...Option) *Hub {
	if historySize <= 0 {
		panic("loghub: non-positive history size")
	}
	hub := &Hub{
		queueSize: DefaultClientQueueSize,
		logger:    slog.New(slog.DiscardHandler),
		history:   newHistory(historySize),
		clients:   make(map[uint64]*Client),
	}
	for _, option := range options {
		option(hub)
	}
	return hub
}

// Publish records an entry and offers it to every registered client.
// An empty service is recorded as UnknownService.
//
// The sequence number is taken under the hub lock, so history order
// and sequence order agree. Delivery happens after the lock is
// released: a full client queue drops the event for that client only,
// and a closed client is pruned in a second, short critical section.
func (h *Hub) Publish(service, line, containerTS string) {
	if service == "" {
		service = UnknownService
	}

	h.mu.Lock()
	event := LogEvent{
		Seq:         h.sequence.Add(1),
		Service:     service,
		ContainerTS: containerTS,
		Line:        line,
	}
	h.history.push(event)
	targets := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	var closed []*Client
	for _, client := range targets {
		if !client.offer(event) {
			closed = append(closed, client)
		}
	}
	if len(closed) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range closed {
		delete(h.clients, client.id)
	}
	h.mu.Unlock()
	for _, client := range closed {
		h.logger.Debug("log client removed", "client", client.id, "dropped", client.Dropped())
	}
}

// RegisterClient adds a viewer and returns it together with the
// retained history, oldest first.
func (h *Hub) RegisterClient() (*Client, []LogEvent) {
	h.mu.Lock()
	h.nextClientID++
	client := &Client{
		id:     h.nextClientID,
		events: make(chan LogEvent, h.queueSize),
		done:   make(chan struct{}),
	}
	h.clients[client.id] = client
	snapshot := h.history.snapshot()
	h.mu.Unlock()

	h.logger.Debug("log client registered", "client", client.id, "history", len(snapshot))
	return client, snapshot
}

// History returns a copy of the retained events without registering.
func (h *Hub) History() []LogEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history.snapshot()
}

// LastSeq returns the sequence number of the most recent event, or 0
// before the first publish.
func (h *Hub) LastSeq() uint64 {
	return h.sequence.Load()
}

// ClientCount returns the number of registered clients, including
// closed ones not yet pruned.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Client is one viewer's live feed.
type Client struct {
	id      uint64
	events  chan LogEvent
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// ID is unique within the hub and never reused.
func (c *Client) ID() uint64 { return c.id }

// Events delivers live events. Each publisher's events arrive in the
// order it published them, but concurrent publishers can interleave
// out of Seq order. Events are missing where the queue was full. The
// channel is never closed.
func (c *Client) Events() <-chan LogEvent { return c.events }

// Dropped counts events this client missed because its queue was full.
func (c *Client) Dropped() uint64 { return c.dropped.Load() }

// Close detaches the client. The hub stops delivering to it and prunes
// it on the next publish. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// offer attempts a non-blocking delivery. It returns false only when
// the client has been closed.
func (c *Client) offer(event LogEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- event:
	default:
		c.dropped.Add(1)
	}
	return true
}
