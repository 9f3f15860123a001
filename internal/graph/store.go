// Package graph holds the node/connection graph store: the single source of
// truth for the map's nodes, connections, mode, selection, filters and
// expanded groups. Every consumer (HTTP API, CLI, interaction coordinator)
// reads and mutates the graph through a *Store.
package graph

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/alfredjeanlab/cinemap/internal/events"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/store"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
)

// DefaultKey is the storage key the graph is persisted under.
const DefaultKey = "cinemap.graph.v1"

// Listener receives a full state snapshot after every notifying mutation.
type Listener func(model.State)

// Store is the graph store. It is safe for concurrent use; listeners and the
// publisher are always invoked with no lock held.
type Store struct {
	backend   store.Store
	publisher events.Publisher
	logger    *slog.Logger
	key       string

	seedNodes       []model.Node
	seedConnections []model.Connection

	mu             sync.RWMutex
	nodes          []model.Node
	connections    []model.Connection
	mode           model.Mode
	selectedNodeID string
	filters        model.Filters
	expanded       map[string]bool

	listenersMu sync.Mutex
	listeners   []*subscription
}

type subscription struct {
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPublisher sets the event publisher. Defaults to a NoopPublisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithMode sets the initial mode.
func WithMode(m model.Mode) Option {
	return func(s *Store) { s.mode = m }
}

// WithSeed replaces the taxonomy seed used on fallback and by Reset.
func WithSeed(nodes []model.Node, connections []model.Connection) Option {
	return func(s *Store) {
		s.seedNodes = append([]model.Node(nil), nodes...)
		s.seedConnections = append([]model.Connection(nil), connections...)
	}
}

// New builds a Store and loads its graph from backend, falling back to the
// seed when nothing usable is stored. A nil backend keeps the graph in
// memory only.
func New(ctx context.Context, backend store.Store, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      DefaultKey,
		mode:     model.ModeExplore,
		expanded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.publisher == nil {
		s.publisher = &events.NoopPublisher{}
	}
	if !s.mode.IsValid() {
		s.logger.Warn("unknown mode, using explore", "mode", s.mode)
		s.mode = model.ModeExplore
	}
	if s.seedNodes == nil {
		s.seedNodes = taxonomy.DefaultNodes()
		s.seedConnections = taxonomy.DefaultConnections()
	}

	s.nodes, s.connections = s.load(ctx)
	return s
}

// Subscribe registers fn for notifications. Listeners run in registration
// order. The returned function unsubscribes and is safe to call repeatedly.
func (s *Store) Subscribe(fn Listener) func() {
	sub := &subscription{fn: fn}
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, sub)
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			for i, l := range s.listeners {
				if l == sub {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// notify delivers a snapshot to every listener. Callers must not hold mu.
func (s *Store) notify() {
	s.listenersMu.Lock()
	subs := append([]*subscription(nil), s.listeners...)
	s.listenersMu.Unlock()
	if len(subs) == 0 {
		return
	}
	state := s.Snapshot()
	for _, sub := range subs {
		sub.fn(cloneState(state))
	}
}

// publish emits a domain event. Failures are logged and otherwise ignored.
func (s *Store) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "err", err)
	}
}

// snapshotLocked copies the current state. Callers must hold mu.
func (s *Store) snapshotLocked() model.State {
	return model.State{
		Nodes:          append([]model.Node{}, s.nodes...),
		Connections:    append([]model.Connection{}, s.connections...),
		Mode:           s.mode,
		SelectedNodeID: s.selectedNodeID,
		Filters:        s.filters,
		ExpandedGroups: s.expandedLocked(),
	}
}

func (s *Store) expandedLocked() []string {
	out := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func cloneState(st model.State) model.State {
	st.Nodes = append([]model.Node{}, st.Nodes...)
	st.Connections = append([]model.Connection{}, st.Connections...)
	st.ExpandedGroups = append([]string{}, st.ExpandedGroups...)
	return st
}
