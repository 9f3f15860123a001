package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// clientName identifies cinemap connections in NATS monitoring.
const clientName = "cinemap"

// subscriberBuffer is how many undelivered messages a subscription holds
// before new ones are dropped.
const subscriberBuffer = 64

func connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	nc, err := nats.Connect(url, append([]nats.Option{nats.Name(clientName)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher JSON-encodes events onto the subject named by their topic.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish sends event on topic. A done ctx skips the send.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered events, then closes the connection.
func (p *NATSPublisher) Close() error {
	if !p.conn.IsClosed() {
		_ = p.conn.FlushTimeout(time.Second)
	}
	p.conn.Close()
	return nil
}

// NATSSubscriber delivers bus messages to channels. It reconnects forever;
// pass nats.ReconnectHandler and friends to observe connection changes.
type NATSSubscriber struct {
	conn *nats.Conn
}

func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, append([]nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe registers topic (e.g. TopicAll) with the server before
// returning, so events published afterwards are never missed. A full channel
// drops new messages rather than stalling the connection.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan Message, func(), error) {
	sub := &subscription{ch: make(chan Message, subscriberBuffer)}

	ns, err := s.conn.Subscribe(topic, sub.deliver)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	sub.ns = ns
	if err := s.conn.Flush(); err != nil {
		sub.cancel()
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}
	return sub.ch, sub.cancel, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}

// subscription bridges a NATS callback to a channel. Cancel discards any
// undelivered messages and closes the channel exactly once.
type subscription struct {
	ns *nats.Subscription
	ch chan Message

	mu     sync.Mutex
	closed bool
}

func (s *subscription) deliver(msg *nats.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- Message{Topic: msg.Subject, Data: msg.Data}:
	default:
	}
}

func (s *subscription) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.ns != nil {
		_ = s.ns.Unsubscribe()
	}
	for len(s.ch) > 0 {
		<-s.ch
	}
	close(s.ch)
}
