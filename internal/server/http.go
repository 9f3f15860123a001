package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// maxBodyBytes bounds JSON request bodies. Imports get maxImportBytes.
const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 32 << 20
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/state", s.handleGetState)
	mux.HandleFunc("GET /v1/graph", s.handleGetGraph)
	mux.HandleFunc("GET /v1/taxonomy", s.handleGetTaxonomy)

	mux.HandleFunc("GET /v1/nodes", s.handleListNodes)
	mux.HandleFunc("POST /v1/nodes", s.handleAddNode)
	mux.HandleFunc("GET /v1/nodes/{id}", s.handleGetNode)
	mux.HandleFunc("PATCH /v1/nodes/{id}", s.handleUpdateNode)
	mux.HandleFunc("DELETE /v1/nodes/{id}", s.handleDeleteNode)
	mux.HandleFunc("PUT /v1/nodes/{id}/note", s.handleUpdateNote)
	mux.HandleFunc("GET /v1/nodes/{id}/connections", s.handleNodeConnections)

	mux.HandleFunc("GET /v1/connections", s.handleListConnections)
	mux.HandleFunc("POST /v1/connections", s.handleAddConnection)
	mux.HandleFunc("DELETE /v1/connections/{id}", s.handleDeleteConnection)

	mux.HandleFunc("GET /v1/mode", s.handleGetMode)
	mux.HandleFunc("PUT /v1/mode", s.handleSetMode)
	mux.HandleFunc("PUT /v1/selection", s.handleSelectNode)
	mux.HandleFunc("DELETE /v1/selection", s.handleDeselectNode)
	mux.HandleFunc("GET /v1/filters", s.handleGetFilters)
	mux.HandleFunc("PUT /v1/filters/{key}", s.handleSetFilter)
	mux.HandleFunc("DELETE /v1/filters", s.handleClearFilters)
	mux.HandleFunc("POST /v1/groups/{id}/toggle", s.handleToggleGroup)
	mux.HandleFunc("POST /v1/reset", s.handleReset)

	mux.HandleFunc("GET /v1/export", s.handleExport)
	mux.HandleFunc("POST /v1/import", s.handleImport)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = LoggingMiddleware(s.logger, h)
	return RecoveryMiddleware(s.logger, h)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure writes err as a failed model.Result. Missing nodes and
// connections are 404; other coded failures are caller errors.
func writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), model.Failure(err))
}

func statusFor(err error) int {
	switch model.ErrorCode(err) {
	case model.CodeNodeNotFound, model.CodeConnectionNotFound:
		return http.StatusNotFound
	case model.CodeStorageFailure, model.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
