package server

import (
	"net/http"

	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
)

// graphView is the render payload: nodes, resolved connections and the
// style of every node keyed by ID.
type graphView struct {
	Nodes       []model.Node              `json:"nodes"`
	Connections []model.Connection        `json:"connections"`
	Styles      map[string]taxonomy.Style `json:"styles"`
}

type taxonomyView struct {
	Layers    []taxonomy.LayerInfo  `json:"layers"`
	Domains   []taxonomy.DomainInfo `json:"domains"`
	Subgroups map[string][]string   `json:"subgroups"`
}

type modeInput struct {
	Mode model.Mode `json:"mode"`
}

// modeResponse carries the nodes flagged unclear so a client entering build
// mode can prompt for them.
type modeResponse struct {
	Success      bool         `json:"success"`
	Mode         model.Mode   `json:"mode"`
	UnclearNodes []model.Node `json:"unclearNodes"`
}

type selectionInput struct {
	NodeID string `json:"nodeId"`
}

type filterInput struct {
	Value string `json:"value"`
}

type toggleResponse struct {
	GroupID  string `json:"groupId"`
	Expanded bool   `json:"expanded"`
}

// handleGetState handles GET /v1/state.
func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Snapshot())
}

// handleGetGraph handles GET /v1/graph.
func (s *Server) handleGetGraph(w http.ResponseWriter, _ *http.Request) {
	g := s.graph.Graph()
	writeJSON(w, http.StatusOK, graphView{Nodes: g.Nodes, Connections: g.Connections, Styles: taxonomy.StylesByID(g.Nodes)})
}

// handleGetTaxonomy handles GET /v1/taxonomy.
func (s *Server) handleGetTaxonomy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, taxonomyView{
		Layers:    taxonomy.Layers(),
		Domains:   taxonomy.Domains(),
		Subgroups: taxonomy.Subgroups(),
	})
}

func (s *Server) modeResponse() modeResponse {
	return modeResponse{Success: true, Mode: s.graph.Mode(), UnclearNodes: s.graph.UnclearNodes()}
}

// handleGetMode handles GET /v1/mode.
func (s *Server) handleGetMode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.modeResponse())
}

// handleSetMode handles PUT /v1/mode.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var in modeInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.graph.SetMode(r.Context(), in.Mode); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.modeResponse())
}

// handleSelectNode handles PUT /v1/selection.
func (s *Server) handleSelectNode(w http.ResponseWriter, r *http.Request) {
	var in selectionInput
	if !decodeBody(w, r, &in) {
		return
	}
	s.graph.SelectNode(r.Context(), in.NodeID)
	writeJSON(w, http.StatusOK, model.OK())
}

// handleDeselectNode handles DELETE /v1/selection.
func (s *Server) handleDeselectNode(w http.ResponseWriter, r *http.Request) {
	s.graph.DeselectNode(r.Context())
	writeJSON(w, http.StatusOK, model.OK())
}

// handleGetFilters handles GET /v1/filters.
func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Filters())
}

// handleSetFilter handles PUT /v1/filters/{key}. An empty value clears the
// dimension.
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var in filterInput
	if !decodeBody(w, r, &in) {
		return
	}
	key := model.FilterKey(r.PathValue("key"))
	if err := s.graph.SetFilter(r.Context(), key, in.Value); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.graph.Filters())
}

// handleClearFilters handles DELETE /v1/filters.
func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	s.graph.ClearFilters(r.Context())
	writeJSON(w, http.StatusOK, s.graph.Filters())
}

// handleToggleGroup handles POST /v1/groups/{id}/toggle.
func (s *Server) handleToggleGroup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	expanded := s.graph.ToggleDomainExpand(r.Context(), id)
	writeJSON(w, http.StatusOK, toggleResponse{GroupID: id, Expanded: expanded})
}

// handleReset handles POST /v1/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.graph.Reset(r.Context())
	writeJSON(w, http.StatusOK, model.OK())
}
