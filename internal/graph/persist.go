package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/idgen"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/store"
)

// document is the persisted shape. It carries no version field; fields
// missing from older payloads are defaulted on load.
type document struct {
	Nodes       []model.Node `json:"nodes"`
	Connections []storedConn `json:"connections"`
}

// storedConn distinguishes a missing strength from an explicit zero.
type storedConn struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Explanation string `json:"explanation"`
	Strength    *int   `json:"strength,omitempty"`
}

// Encode serializes nodes and connections in the persisted shape.
func Encode(nodes []model.Node, connections []model.Connection) ([]byte, error) {
	doc := document{
		Nodes:       append([]model.Node{}, nodes...),
		Connections: make([]storedConn, len(connections)),
	}
	for i, c := range connections {
		strength := c.Strength
		doc.Connections[i] = storedConn{
			ID:          c.ID,
			From:        c.From,
			To:          c.To,
			Explanation: c.Explanation,
			Strength:    &strength,
		}
	}
	return json.Marshal(doc)
}

// Decode parses a persisted payload and defaults missing fields.
func Decode(data []byte) ([]model.Node, []model.Connection, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode graph: %w", err)
	}
	conns := make([]model.Connection, len(doc.Connections))
	for i, c := range doc.Connections {
		strength := model.DefaultStrength
		if c.Strength != nil {
			strength = *c.Strength
		}
		conns[i] = model.Connection{
			ID:          c.ID,
			From:        c.From,
			To:          c.To,
			Explanation: c.Explanation,
			Strength:    model.ClampStrength(strength),
		}
	}
	if doc.Nodes == nil {
		doc.Nodes = []model.Node{}
	}
	return doc.Nodes, conns, nil
}

// load reads the graph from the backend. Anything other than a decodable
// payload with at least one node yields the seed.
func (s *Store) load(ctx context.Context) ([]model.Node, []model.Connection) {
	seed := func() ([]model.Node, []model.Connection) {
		return append([]model.Node{}, s.seedNodes...), append([]model.Connection{}, s.seedConnections...)
	}
	if s.backend == nil {
		return seed()
	}

	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Info("no stored graph, using seed", "key", s.key)
		return seed()
	}
	if err != nil {
		s.logger.Warn("failed to read stored graph, using seed", "key", s.key, "err", err)
		return seed()
	}

	nodes, conns, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored graph is corrupt, using seed", "key", s.key, "err", err)
		return seed()
	}
	if len(nodes) == 0 {
		s.logger.Info("stored graph is empty, using seed", "key", s.key)
		return seed()
	}
	nodes, conns = normalizeGraph(s.logger, nodes, conns)
	s.logger.Debug("loaded graph", "key", s.key, "nodes", len(nodes), "connections", len(conns))
	return nodes, conns
}

// normalizeGraph fills missing IDs, clears domains off non-domain layers and
// clamps strengths.
func normalizeGraph(logger *slog.Logger, nodes []model.Node, conns []model.Connection) ([]model.Node, []model.Connection) {
	outNodes := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if strings.TrimSpace(n.ID) == "" {
			id, err := idgen.NodeID()
			if err != nil {
				logger.Warn("dropping node without id", "title", n.Title, "err", err)
				continue
			}
			n.ID = id
		}
		if n.Layer != model.LayerDomain {
			n.Domain = ""
		}
		outNodes = append(outNodes, n)
	}

	outConns := make([]model.Connection, 0, len(conns))
	for _, c := range conns {
		if strings.TrimSpace(c.ID) == "" {
			id, err := idgen.ConnectionID()
			if err != nil {
				logger.Warn("dropping connection without id", "from", c.From, "to", c.To, "err", err)
				continue
			}
			c.ID = id
		}
		c.Strength = model.ClampStrength(c.Strength)
		outConns = append(outConns, c)
	}
	return outNodes, outConns
}

// persistLocked writes nodes and connections to the backend. Failures are
// logged and never returned; the in-memory graph stays authoritative and the
// next mutation writes it again. Callers must hold mu.
func (s *Store) persistLocked(ctx context.Context) {
	if s.backend == nil {
		return
	}
	data, err := Encode(s.nodes, s.connections)
	if err != nil {
		s.logger.Warn("failed to encode graph", "key", s.key, "err", err)
		return
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist graph", "key", s.key, "err", fmt.Errorf("%w: %v", model.ErrStorageFailure, err))
	}
}
