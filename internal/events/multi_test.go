package events

import (
	"context"
	"errors"
	"testing"
)

type countingPublisher struct {
	topics []string
	err    error
	closed bool
}

func (c *countingPublisher) Publish(_ context.Context, topic string, _ any) error {
	c.topics = append(c.topics, topic)
	return c.err
}

func (c *countingPublisher) Close() error {
	c.closed = true
	return c.err
}

func TestMultiPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*MultiPublisher)(nil)
}

func TestMultiPublisher_FansOut(t *testing.T) {
	failing := &countingPublisher{err: errors.New("down")}
	ok := &countingPublisher{}
	m := Multi(failing, nil, ok)

	err := m.Publish(context.Background(), TopicGraphReset, GraphReset{})
	if err == nil {
		t.Fatal("expected joined error from failing publisher")
	}
	if len(failing.topics) != 1 || len(ok.topics) != 1 {
		t.Fatalf("expected both publishers to see the event, got %v and %v", failing.topics, ok.topics)
	}
	if ok.topics[0] != TopicGraphReset {
		t.Fatalf("expected topic %q, got %q", TopicGraphReset, ok.topics[0])
	}
}

func TestMultiPublisher_Close(t *testing.T) {
	a, b := &countingPublisher{}, &countingPublisher{}
	if err := Multi(a, b).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatal("expected every publisher to be closed")
	}
}

func TestMulti_Empty(t *testing.T) {
	if err := Multi().Publish(context.Background(), TopicModeChanged, ModeChanged{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
