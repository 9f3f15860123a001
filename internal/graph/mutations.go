package graph

import (
	"context"

	"github.com/alfredjeanlab/cinemap/internal/events"
	"github.com/alfredjeanlab/cinemap/internal/model"
)

// SetMode switches between explore and build. Existing nodes are not
// revalidated; see UnclearNodes.
func (s *Store) SetMode(ctx context.Context, mode model.Mode) error {
	if !mode.IsValid() {
		return model.ErrInvalidMode
	}
	s.mu.Lock()
	prev := s.mode
	s.mode = mode
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	if prev != mode {
		s.publish(ctx, events.TopicModeChanged, events.ModeChanged{From: prev, To: mode})
	}
	return nil
}

// SelectNode sets the selected node. The ID is not checked.
func (s *Store) SelectNode(ctx context.Context, id string) {
	s.mu.Lock()
	s.selectedNodeID = id
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// DeselectNode clears the selection.
func (s *Store) DeselectNode(ctx context.Context) {
	s.SelectNode(ctx, "")
}

// SetFilter sets one filter dimension. An empty value clears it.
func (s *Store) SetFilter(ctx context.Context, key model.FilterKey, value string) error {
	if !key.IsValid() {
		return model.ErrInvalidFilter
	}
	s.mu.Lock()
	s.filters = s.filters.With(key, value)
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearFilters resets every filter dimension.
func (s *Store) ClearFilters(ctx context.Context) {
	s.mu.Lock()
	s.filters = model.Filters{}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// ToggleDomainExpand flips whether groupID is expanded and reports the new
// state.
func (s *Store) ToggleDomainExpand(ctx context.Context, groupID string) bool {
	s.mu.Lock()
	expanded := !s.expanded[groupID]
	if expanded {
		s.expanded[groupID] = true
	} else {
		delete(s.expanded, groupID)
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
	return expanded
}

// AddNode creates and appends a node. In build mode the unclear flag is
// forced off and the node must validate; a failure leaves the graph as it
// was.
func (s *Store) AddNode(ctx context.Context, in model.NodeInput) (model.Node, error) {
	s.mu.Lock()
	if s.mode.IsStrict() {
		in.Unclear = false
	}
	n, err := model.CreateNode(in)
	if err != nil {
		s.mu.Unlock()
		return model.Node{}, err
	}
	if s.mode.IsStrict() {
		if err := model.ValidateNode(n); err != nil {
			s.mu.Unlock()
			return model.Node{}, err
		}
	}
	s.nodes = append(s.nodes, n)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicNodeCreated, events.NodeCreated{Node: n})
	return n, nil
}

// UpdateNode applies the non-nil fields of u to the node. In build mode the
// merged node must validate.
func (s *Store) UpdateNode(ctx context.Context, id string, u model.NodeUpdate) (model.Node, error) {
	s.mu.Lock()
	i := s.indexOfNode(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Node{}, model.ErrNodeNotFound
	}
	n := u.Apply(s.nodes[i])
	if s.mode.IsStrict() {
		if err := model.ValidateNode(n); err != nil {
			s.mu.Unlock()
			return model.Node{}, err
		}
	}
	s.nodes[i] = n
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicNodeUpdated, events.NodeUpdated{Node: n, Fields: u.Fields()})
	return n, nil
}

// UpdateNodeNotes sets only the personal note. It persists but neither
// notifies listeners nor publishes, so frequent note edits do not trigger
// re-renders.
func (s *Store) UpdateNodeNotes(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfNode(id)
	if i < 0 {
		return model.ErrNodeNotFound
	}
	s.nodes[i].PersonalNote = text
	s.persistLocked(ctx)
	return nil
}

// DeleteNode removes the node together with every connection touching it,
// and clears the selection if it pointed at the node. It returns the IDs of
// the removed connections.
func (s *Store) DeleteNode(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	i := s.indexOfNode(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, model.ErrNodeNotFound
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)

	removed := []string{}
	kept := s.connections[:0]
	for _, c := range s.connections {
		if c.Touches(id) {
			removed = append(removed, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	s.connections = kept
	if s.selectedNodeID == id {
		s.selectedNodeID = ""
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicNodeDeleted, events.NodeDeleted{NodeID: id, ConnectionIDs: removed})
	return removed, nil
}

// AddConnection creates and appends a connection. Endpoints are required;
// build mode also requires an explanation. Endpoints are not checked for
// existence.
func (s *Store) AddConnection(ctx context.Context, in model.ConnectionInput) (model.Connection, error) {
	s.mu.Lock()
	if err := model.ValidateConnection(in, s.mode); err != nil {
		s.mu.Unlock()
		return model.Connection{}, err
	}
	c, err := model.CreateConnection(in)
	if err != nil {
		s.mu.Unlock()
		return model.Connection{}, err
	}
	s.connections = append(s.connections, c)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicConnectionAdded, events.ConnectionAdded{Connection: c})
	return c, nil
}

// DeleteConnection removes the connection with the given ID.
func (s *Store) DeleteConnection(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOfConnection(id)
	if i < 0 {
		s.mu.Unlock()
		return model.ErrConnectionNotFound
	}
	s.connections = append(s.connections[:i], s.connections[i+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicConnectionDeleted, events.ConnectionDeleted{ConnectionID: id})
	return nil
}

// Reset replaces the graph with the seed and clears selection and expanded
// groups. Mode and filters are kept.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.nodes = append([]model.Node{}, s.seedNodes...)
	s.connections = append([]model.Connection{}, s.seedConnections...)
	s.selectedNodeID = ""
	s.expanded = make(map[string]bool)
	s.persistLocked(ctx)
	nodes, conns := len(s.nodes), len(s.connections)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicGraphReset, events.GraphReset{Nodes: nodes, Connections: conns})
}

// Replace swaps in an imported graph wholesale, normalizing it the same way
// a load does.
func (s *Store) Replace(ctx context.Context, nodes []model.Node, connections []model.Connection) {
	nodes, connections = normalizeGraph(s.logger, nodes, connections)
	s.mu.Lock()
	s.nodes = nodes
	s.connections = connections
	s.selectedNodeID = ""
	s.expanded = make(map[string]bool)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	s.publish(ctx, events.TopicGraphReset, events.GraphReset{Nodes: len(nodes), Connections: len(connections)})
}
