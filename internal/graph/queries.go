package graph

import "github.com/alfredjeanlab/cinemap/internal/model"

// Nodes returns a copy of every node in store order.
func (s *Store) Nodes() []model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Node{}, s.nodes...)
}

// Connections returns a copy of every connection in store order.
func (s *Store) Connections() []model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Connection{}, s.connections...)
}

// NodeByID returns the node with the given ID.
func (s *Store) NodeByID(id string) (model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOfNode(id)
	if i < 0 {
		return model.Node{}, false
	}
	return s.nodes[i], true
}

// ConnectionsForNode returns every connection with id as either endpoint, in
// store order. The result is never nil. Connections whose other endpoint no
// longer exists are included.
func (s *Store) ConnectionsForNode(id string) []model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectionsForNodeLocked(id)
}

func (s *Store) connectionsForNodeLocked(id string) []model.Connection {
	out := []model.Connection{}
	for _, c := range s.connections {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

// ResolvedConnections returns only the connections whose endpoints both
// exist, which is what renderers draw.
func (s *Store) ResolvedConnections() []model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolvedLocked()
}

func (s *Store) resolvedLocked() []model.Connection {
	ids := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		ids[n.ID] = true
	}
	out := []model.Connection{}
	for _, c := range s.connections {
		if ids[c.From] && ids[c.To] {
			out = append(out, c)
		}
	}
	return out
}

// FilteredNodes returns the nodes matching every set filter dimension.
func (s *Store) FilteredNodes() []model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Node{}
	for _, n := range s.nodes {
		if s.filters.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsNodeVisible reports whether the node exists and, if it belongs to a
// subgroup, whether that subgroup is expanded.
func (s *Store) IsNodeVisible(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOfNode(id)
	if i < 0 {
		return false
	}
	if g := s.nodes[i].Subgroup; g != "" && !s.expanded[g] {
		return false
	}
	return true
}

// VisibleNodes returns the nodes for which IsNodeVisible holds.
func (s *Store) VisibleNodes() []model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Node{}
	for _, n := range s.nodes {
		if n.Subgroup == "" || s.expanded[n.Subgroup] {
			out = append(out, n)
		}
	}
	return out
}

// Mode returns the current mode.
func (s *Store) Mode() model.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SelectedNodeID returns the selected node ID, or "" when nothing is selected.
func (s *Store) SelectedNodeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedNodeID
}

// Filters returns the current filter criteria.
func (s *Store) Filters() model.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// ExpandedGroups returns the expanded group IDs, sorted.
func (s *Store) ExpandedGroups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expandedLocked()
}

// IsExpanded reports whether the group is expanded.
func (s *Store) IsExpanded(groupID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[groupID]
}

// IsGroupParent reports whether any node names id as its subgroup.
func (s *Store) IsGroupParent(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.Subgroup == id {
			return true
		}
	}
	return false
}

// UnclearNodes returns the nodes flagged unclear. UIs check it before
// switching into build mode.
func (s *Store) UnclearNodes() []model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Node{}
	for _, n := range s.nodes {
		if n.Unclear {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Graph returns the nodes plus resolved connections.
func (s *Store) Graph() model.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Graph{
		Nodes:       append([]model.Node{}, s.nodes...),
		Connections: s.resolvedLocked(),
	}
}

func (s *Store) indexOfNode(id string) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfConnection(id string) int {
	for i, c := range s.connections {
		if c.ID == id {
			return i
		}
	}
	return -1
}
