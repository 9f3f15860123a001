package server

import (
	"bytes"
	"net/http"

	cmsync "github.com/alfredjeanlab/cinemap/internal/sync"
)

type importResponse struct {
	Success     bool `json:"success"`
	Nodes       int  `json:"nodes"`
	Connections int  `json:"connections"`
}

// handleExport handles GET /v1/export, streaming the graph as JSONL.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := cmsync.ExportJSONL(r.Context(), s.graph, &buf); err != nil {
		s.logger.Error("failed to export graph", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to export graph")
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="cinemap.jsonl"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleImport handles POST /v1/import. The body is a JSONL export; it
// replaces the whole graph.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	nodes, conns, err := cmsync.ImportJSONL(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid export: "+err.Error())
		return
	}
	s.graph.Replace(r.Context(), nodes, conns)
	writeJSON(w, http.StatusOK, importResponse{
		Success:     true,
		Nodes:       len(s.graph.Nodes()),
		Connections: len(s.graph.Connections()),
	})
}
