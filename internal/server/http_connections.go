package server

import (
	"net/http"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

type connectionListResponse struct {
	Connections []model.Connection `json:"connections"`
	Total       int                `json:"total"`
}

// handleListConnections handles GET /v1/connections. With resolved=true only
// connections whose endpoints both exist are returned.
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	var conns []model.Connection
	if r.URL.Query().Get("resolved") == "true" {
		conns = s.graph.ResolvedConnections()
	} else {
		conns = s.graph.Connections()
	}
	writeJSON(w, http.StatusOK, connectionListResponse{Connections: conns, Total: len(conns)})
}

// handleAddConnection handles POST /v1/connections.
func (s *Server) handleAddConnection(w http.ResponseWriter, r *http.Request) {
	var in model.ConnectionInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := s.graph.AddConnection(r.Context(), in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.ConnectionResult(c, nil))
}

// handleDeleteConnection handles DELETE /v1/connections/{id}.
func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := s.graph.DeleteConnection(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.OK())
}
