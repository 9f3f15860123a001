// Package server exposes a graph store over HTTP/JSON and streams its
// changes to browsers and other clients as server-sent events.
package server

import (
	"encoding/json"
	"log/slog"

	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/model"
)

// TopicState carries a full state snapshot after every notifying mutation.
// It sits outside the cinemap.> namespace so renderers can subscribe to it
// alone.
const TopicState = "state"

// Server serves one graph store.
type Server struct {
	graph       *graph.Store
	hub         *Hub
	logger      *slog.Logger
	unsubscribe func()
}

// New returns a Server for g. Graph events reach SSE clients when hub is
// also the store's publisher (directly or through events.Multi). A nil hub
// gets a private one that only carries state snapshots.
func New(g *graph.Store, hub *Hub, logger *slog.Logger) *Server {
	if hub == nil {
		hub = NewHub()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{graph: g, hub: hub, logger: logger}
	s.unsubscribe = g.Subscribe(s.broadcastState)
	return s
}

// Hub returns the SSE hub the server streams from.
func (s *Server) Hub() *Hub { return s.hub }

// Close detaches the server from the graph store.
func (s *Server) Close() {
	s.unsubscribe()
}

func (s *Server) broadcastState(st model.State) {
	payload, err := json.Marshal(st)
	if err != nil {
		s.logger.Warn("failed to marshal state for SSE broadcast", "err", err)
		return
	}
	s.hub.broadcast(TopicState, payload)
}
