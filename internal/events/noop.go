package events

import "context"

// NoopPublisher discards every event. It stands in when no bus is
// configured.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
