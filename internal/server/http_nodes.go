package server

import (
	"net/http"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// nodeListResponse is the body of GET /v1/nodes.
type nodeListResponse struct {
	Nodes []model.Node `json:"nodes"`
	Total int          `json:"total"`
}

// nodeDetail is the body of GET /v1/nodes/{id}.
type nodeDetail struct {
	Node        model.Node         `json:"node"`
	Connections []model.Connection `json:"connections"`
	Visible     bool               `json:"visible"`
	GroupParent bool               `json:"groupParent"`
	Expanded    bool               `json:"expanded"`
}

// deleteNodeResponse reports the connections removed with the node.
type deleteNodeResponse struct {
	model.Result
	RemovedConnections []string `json:"removedConnections"`
}

type noteInput struct {
	Text string `json:"text"`
}

// handleListNodes handles GET /v1/nodes. The view query parameter selects
// all (default), filtered, visible or unclear nodes.
func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	var nodes []model.Node
	switch view := r.URL.Query().Get("view"); view {
	case "", "all":
		nodes = s.graph.Nodes()
	case "filtered":
		nodes = s.graph.FilteredNodes()
	case "visible":
		nodes = s.graph.VisibleNodes()
	case "unclear":
		nodes = s.graph.UnclearNodes()
	default:
		writeError(w, http.StatusBadRequest, "unknown view "+view)
		return
	}
	writeJSON(w, http.StatusOK, nodeListResponse{Nodes: nodes, Total: len(nodes)})
}

// handleAddNode handles POST /v1/nodes.
func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var in model.NodeInput
	if !decodeBody(w, r, &in) {
		return
	}
	n, err := s.graph.AddNode(r.Context(), in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.NodeResult(n, nil))
}

// handleGetNode handles GET /v1/nodes/{id}.
func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n, ok := s.graph.NodeByID(id)
	if !ok {
		writeFailure(w, model.ErrNodeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, nodeDetail{
		Node:        n,
		Connections: s.graph.ConnectionsForNode(id),
		Visible:     s.graph.IsNodeVisible(id),
		GroupParent: s.graph.IsGroupParent(id),
		Expanded:    s.graph.IsExpanded(id),
	})
}

// handleUpdateNode handles PATCH /v1/nodes/{id}.
func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var u model.NodeUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	n, err := s.graph.UpdateNode(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NodeResult(n, nil))
}

// handleDeleteNode handles DELETE /v1/nodes/{id}.
func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	removed, err := s.graph.DeleteNode(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteNodeResponse{Result: model.OK(), RemovedConnections: removed})
}

// handleUpdateNote handles PUT /v1/nodes/{id}/note.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var in noteInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.graph.UpdateNodeNotes(r.Context(), r.PathValue("id"), in.Text); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.OK())
}

// handleNodeConnections handles GET /v1/nodes/{id}/connections. Unknown IDs
// yield an empty list, matching ConnectionsForNode.
func (s *Server) handleNodeConnections(w http.ResponseWriter, r *http.Request) {
	conns := s.graph.ConnectionsForNode(r.PathValue("id"))
	writeJSON(w, http.StatusOK, connectionListResponse{Connections: conns, Total: len(conns)})
}
