package events

import (
	"context"
	"errors"
)

// MultiPublisher fans each event out to several publishers. Every publisher
// sees every event even when an earlier one fails.
type MultiPublisher struct {
	pubs []Publisher
}

// Multi returns a publisher that forwards to each non-nil pub in order.
func Multi(pubs ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range pubs {
		if p != nil {
			m.pubs = append(m.pubs, p)
		}
	}
	return m
}

func (m *MultiPublisher) Publish(ctx context.Context, topic string, event any) error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
