package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alfredjeanlab/cinemap/internal/events"
)

func recv(t *testing.T, c *sseClient) sseEvent {
	t.Helper()
	select {
	case evt := <-c.ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return sseEvent{}
	}
}

func requireQuiet(t *testing.T, c *sseClient) {
	t.Helper()
	select {
	case evt := <-c.ch:
		t.Fatalf("unexpected event %d %s", evt.ID, evt.Topic)
	default:
	}
}

func TestHubNumbersEvents(t *testing.T) {
	hub := NewHub()
	c, backlog, last := hub.subscribe(nil, 0, false)
	defer hub.unsubscribe(c)
	if backlog != nil || last != 0 {
		t.Fatalf("fresh hub: backlog=%v last=%d", backlog, last)
	}

	hub.broadcast(events.TopicNodeCreated, []byte(`{"id":"a"}`))
	if err := hub.Publish(context.Background(), events.TopicConnectionDeleted, events.ConnectionDeleted{ConnectionID: "c-9"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	first, second := recv(t, c), recv(t, c)
	if first.ID != 1 || first.Topic != events.TopicNodeCreated || string(first.Data) != `{"id":"a"}` {
		t.Errorf("first = %+v", first)
	}
	if second.ID != 2 || string(second.Data) != `{"connection_id":"c-9"}` {
		t.Errorf("second = %+v", second)
	}
}

func TestHubPublishMarshalError(t *testing.T) {
	hub := NewHub()
	if err := hub.Publish(context.Background(), events.TopicGraphReset, func() {}); err == nil {
		t.Fatal("expected marshal error")
	}
	if got := hub.eventsSince(0); len(got) != 0 {
		t.Fatalf("failed publish was recorded: %v", got)
	}
}

func TestHubFilter(t *testing.T) {
	hub := NewHub()
	nodes, _, _ := hub.subscribe(parseTopicFilter("cinemap.node.*"), 0, false)
	mixed, _, _ := hub.subscribe(parseTopicFilter(" cinemap.node.deleted , state "), 0, false)
	defer hub.unsubscribe(nodes)
	defer hub.unsubscribe(mixed)

	hub.broadcast(events.TopicConnectionAdded, []byte(`{}`))
	hub.broadcast(events.TopicNodeDeleted, []byte(`{}`))
	hub.broadcast(TopicState, []byte(`{}`))

	if got := recv(t, nodes); got.Topic != events.TopicNodeDeleted {
		t.Errorf("nodes got %s", got.Topic)
	}
	requireQuiet(t, nodes)

	if got := recv(t, mixed); got.Topic != events.TopicNodeDeleted {
		t.Errorf("mixed first got %s", got.Topic)
	}
	if got := recv(t, mixed); got.Topic != TopicState || got.ID != 3 {
		t.Errorf("mixed second got %d %s", got.ID, got.Topic)
	}
}

func TestHubSlowClientDrops(t *testing.T) {
	hub := NewHub()
	c, _, _ := hub.subscribe(nil, 0, false)
	defer hub.unsubscribe(c)

	for range clientBuffer + 10 {
		hub.broadcast(events.TopicNodeUpdated, []byte(`{}`))
	}
	if n := len(c.ch); n != clientBuffer {
		t.Fatalf("queued %d, want %d", n, clientBuffer)
	}
	// The replay buffer still has everything.
	if n := len(hub.eventsSince(0)); n != clientBuffer+10 {
		t.Fatalf("replay holds %d", n)
	}
}

func TestHubResume(t *testing.T) {
	hub := NewHub()
	for i := 1; i <= 4; i++ {
		topic := events.TopicNodeUpdated
		if i%2 == 0 {
			topic = events.TopicConnectionAdded
		}
		hub.broadcast(topic, []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	c, backlog, last := hub.subscribe(parseTopicFilter("cinemap.connection.>"), 1, true)
	defer hub.unsubscribe(c)
	if last != 4 {
		t.Errorf("last = %d, want 4", last)
	}
	if len(backlog) != 2 || backlog[0].ID != 2 || backlog[1].ID != 4 {
		t.Fatalf("backlog = %+v", backlog)
	}

	// Resuming from the newest ID yields nothing.
	c2, backlog, _ := hub.subscribe(nil, 4, true)
	defer hub.unsubscribe(c2)
	if len(backlog) != 0 {
		t.Fatalf("backlog after newest = %+v", backlog)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	c, _, _ := hub.subscribe(nil, 0, false)
	if hub.clientCount() != 1 {
		t.Fatalf("clientCount = %d", hub.clientCount())
	}
	hub.unsubscribe(c)
	hub.broadcast(events.TopicNodeCreated, []byte(`{}`))
	requireQuiet(t, c)
	if hub.clientCount() != 0 {
		t.Fatalf("clientCount after unsubscribe = %d", hub.clientCount())
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	c, _, _ := hub.subscribe(nil, 0, false)

	if err := hub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-c.done:
	default:
		t.Fatal("client not released on close")
	}
	if err := hub.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	hub.broadcast(events.TopicNodeCreated, []byte(`{}`))
	if len(hub.eventsSince(0)) != 0 {
		t.Fatal("closed hub recorded an event")
	}
	late, _, _ := hub.subscribe(nil, 0, false)
	select {
	case <-late.done:
	default:
		t.Fatal("subscribe after close should be released immediately")
	}
}

func TestReplayBufferWraps(t *testing.T) {
	b := replayBuffer{limit: 4}
	for id := uint64(1); id <= 10; id++ {
		b.add(sseEvent{ID: id})
	}
	var ids []uint64
	for _, evt := range b.since(0) {
		ids = append(ids, evt.ID)
	}
	if fmt.Sprint(ids) != "[7 8 9 10]" {
		t.Fatalf("since(0) = %v", ids)
	}
	if got := b.since(8); len(got) != 2 || got[0].ID != 9 {
		t.Fatalf("since(8) = %+v", got)
	}
	if got := b.since(10); len(got) != 0 {
		t.Fatalf("since(10) = %+v", got)
	}
	// Returned slices are copies.
	got := b.since(0)
	got[0].ID = 99
	if b.since(0)[0].ID != 7 {
		t.Fatal("since leaked the ring's backing array")
	}
}

func TestHubReplayLimit(t *testing.T) {
	hub := NewHub()
	for range replayLimit + 100 {
		hub.broadcast(events.TopicNodeUpdated, []byte(`{}`))
	}
	got := hub.eventsSince(0)
	if len(got) != replayLimit || got[0].ID != 101 {
		t.Fatalf("len=%d oldest=%d", len(got), got[0].ID)
	}
}

func TestParseTopicFilter(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"", 0},
		{" , ", 0},
		{"state", 1},
		{"cinemap.node.*,state,", 2},
	} {
		if got := parseTopicFilter(tc.in); len(got) != tc.want {
			t.Errorf("parseTopicFilter(%q) = %q", tc.in, got)
		}
	}
	if !topicFilter(nil).matches("anything") {
		t.Error("empty filter should match everything")
	}
}

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern, topic string
		want           bool
	}{
		{"cinemap.node.created", "cinemap.node.created", true},
		{"cinemap.node.created", "cinemap.node.updated", false},
		{"cinemap.node.*", "cinemap.node.deleted", true},
		{"cinemap.node.*", "cinemap.connection.added", false},
		{"cinemap.node.*", "cinemap.node", false},
		{"cinemap.node", "cinemap.node.created", false},
		{"cinemap.>", "cinemap.graph.reset", true},
		{"cinemap.>", "cinemap", false},
		{"cinemap.>", "state", false},
		{">", "state", true},
		{"*.*.*", "cinemap.node.created", true},
		{"*.*.*", "cinemap.node", false},
		{"state", "state", true},
	} {
		if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}
