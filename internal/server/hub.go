package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	// replayLimit is how many recent events are kept for Last-Event-ID
	// resumption.
	replayLimit = 1000

	// clientBuffer is how many undelivered events a slow client may queue
	// before new ones are dropped.
	clientBuffer = 64
)

// sseEvent is one numbered message on the stream.
type sseEvent struct {
	ID    uint64
	Topic string
	Data  []byte // JSON
}

// Hub fans graph events and state snapshots out to connected SSE clients.
// It numbers every event, keeps the most recent ones for replay and
// satisfies events.Publisher so a graph store can publish into it.
type Hub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	lastID  uint64
	replay  replayBuffer
	closed  bool
}

type sseClient struct {
	filter topicFilter
	ch     chan sseEvent
	done   chan struct{} // closed when the hub shuts down
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*sseClient]struct{}),
		replay:  replayBuffer{limit: replayLimit},
	}
}

// Publish marshals event and broadcasts it under topic.
func (h *Hub) Publish(_ context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for SSE broadcast: %w", err)
	}
	h.broadcast(topic, payload)
	return nil
}

// Close ends every open stream. Later broadcasts are dropped.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for c := range h.clients {
		close(c.done)
		delete(h.clients, c)
	}
	return nil
}

// broadcast numbers the payload, records it for replay and queues it for
// every matching client. Full client queues drop the event rather than
// block the mutation path.
func (h *Hub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.lastID++
	evt := sseEvent{ID: h.lastID, Topic: topic, Data: payload}
	h.replay.add(evt)
	for c := range h.clients {
		if !c.filter.matches(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
		}
	}
}

// subscribe registers a client. When resume is set the buffered events
// after resumeAfter are returned for replay; registering and collecting the
// backlog happen atomically so nothing is delivered twice or skipped. The
// returned ID is the last event numbered before the client joined.
func (h *Hub) subscribe(filter topicFilter, resumeAfter uint64, resume bool) (*sseClient, []sseEvent, uint64) {
	c := &sseClient{
		filter: filter,
		ch:     make(chan sseEvent, clientBuffer),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.done)
		return c, nil, h.lastID
	}
	h.clients[c] = struct{}{}

	var backlog []sseEvent
	if resume {
		for _, evt := range h.replay.since(resumeAfter) {
			if filter.matches(evt.Topic) {
				backlog = append(backlog, evt)
			}
		}
	}
	return c, backlog, h.lastID
}

func (h *Hub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// eventsSince returns the buffered events numbered after id, oldest first.
func (h *Hub) eventsSince(id uint64) []sseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replay.since(id)
}

// replayBuffer is a fixed-size ring of events in ID order.
type replayBuffer struct {
	limit  int
	events []sseEvent
	start  int // index of the oldest event once the ring is full
}

func (b *replayBuffer) add(evt sseEvent) {
	if len(b.events) < b.limit {
		b.events = append(b.events, evt)
		return
	}
	b.events[b.start] = evt
	b.start = (b.start + 1) % b.limit
}

func (b *replayBuffer) at(i int) sseEvent {
	return b.events[(b.start+i)%len(b.events)]
}

// since returns copies of the events numbered after id. IDs increase
// monotonically, so the first match is found by binary search.
func (b *replayBuffer) since(id uint64) []sseEvent {
	n := len(b.events)
	first := sort.Search(n, func(i int) bool { return b.at(i).ID > id })
	out := make([]sseEvent, 0, n-first)
	for i := first; i < n; i++ {
		out = append(out, b.at(i))
	}
	return out
}

// topicFilter is a set of NATS-style topic patterns. An empty filter matches
// every topic.
type topicFilter []string

// parseTopicFilter reads a comma-separated pattern list.
func parseTopicFilter(s string) topicFilter {
	var f topicFilter
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			f = append(f, p)
		}
	}
	return f
}

func (f topicFilter) matches(topic string) bool {
	if len(f) == 0 {
		return true
	}
	for _, p := range f {
		if matchTopicPattern(p, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches dot-separated tokens. "*" matches exactly one
// token and a trailing ">" matches one or more.
func matchTopicPattern(pattern, topic string) bool {
	for {
		p, pRest, pMore := strings.Cut(pattern, ".")
		t, tRest, tMore := strings.Cut(topic, ".")
		switch {
		case p == ">":
			return t != ""
		case p != "*" && p != t:
			return false
		case !pMore || !tMore:
			return pMore == tMore
		}
		pattern, topic = pRest, tRest
	}
}
