package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/store/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNodes = []model.Node{
	{ID: "premise", Layer: model.LayerStorytelling, Title: "Premise", Definition: "The core dramatic question."},
	{ID: "midpoint", Layer: model.LayerStructure, Title: "Midpoint"},
	{ID: "lighting", Layer: model.LayerDomain, Domain: model.DomainLighting, Title: "Lighting"},
	{ID: "key-light", Layer: model.LayerDomain, Domain: model.DomainLighting, Subgroup: "lighting", Title: "Key light"},
}

var testConnections = []model.Connection{
	{ID: "c1", From: "premise", To: "midpoint", Explanation: "the question turns", Strength: 3},
	{ID: "c2", From: "midpoint", To: "lighting", Explanation: "light shifts", Strength: 4},
	{ID: "c3", From: "premise", To: "ghost", Explanation: "dangling", Strength: 2},
}

// newTestServer returns a server over a seeded in-memory graph whose events
// flow into the server's hub.
func newTestServer(t *testing.T, opts ...graph.Option) (*Server, *graph.Store, http.Handler) {
	t.Helper()
	hub := NewHub()
	base := []graph.Option{
		graph.WithLogger(quietLogger()),
		graph.WithPublisher(hub),
		graph.WithSeed(testNodes, testConnections),
	}
	g := graph.New(context.Background(), memory.New(), append(base, opts...)...)
	s := New(g, hub, quietLogger())
	t.Cleanup(s.Close)
	return s, g, s.NewHTTPHandler("")
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, http.StatusOK)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %v", body)
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		method   string
		path     string
		body     any
		code     int
		wantCode model.Code
	}{
		{"GetNode/NotFound", "GET", "/v1/nodes/nope", nil, 404, model.CodeNodeNotFound},
		{"UpdateNode/NotFound", "PATCH", "/v1/nodes/nope", map[string]any{"title": "x"}, 404, model.CodeNodeNotFound},
		{"DeleteNode/NotFound", "DELETE", "/v1/nodes/nope", nil, 404, model.CodeNodeNotFound},
		{"UpdateNote/NotFound", "PUT", "/v1/nodes/nope/note", map[string]any{"text": "x"}, 404, model.CodeNodeNotFound},
		{"DeleteConnection/NotFound", "DELETE", "/v1/connections/nope", nil, 404, model.CodeConnectionNotFound},
		{"AddConnection/MissingEndpoint", "POST", "/v1/connections", map[string]any{"from": "premise"}, 400, model.CodeMissingEndpoint},
		{"SetMode/Invalid", "PUT", "/v1/mode", map[string]any{"mode": "edit"}, 400, model.CodeInvalidMode},
		{"SetFilter/InvalidKey", "PUT", "/v1/filters/color", map[string]any{"value": "x"}, 400, model.CodeInvalidFilter},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer(t)
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			var res model.Result
			decodeJSON(t, rec, &res)
			if res.Success {
				t.Fatal("expected success=false")
			}
			if res.Error != tc.wantCode {
				t.Fatalf("expected error code %q, got %q", tc.wantCode, res.Error)
			}
		})
	}
}

func TestHandleInvalidJSON(t *testing.T) {
	_, _, h := newTestServer(t)
	req := httptest.NewRequest("POST", "/v1/nodes", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestHandleListNodes(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/nodes", nil)
	requireStatus(t, rec, http.StatusOK)
	var all nodeListResponse
	decodeJSON(t, rec, &all)
	if all.Total != len(testNodes) || len(all.Nodes) != len(testNodes) {
		t.Fatalf("expected %d nodes, got %d (total %d)", len(testNodes), len(all.Nodes), all.Total)
	}

	rec = doJSON(t, h, "GET", "/v1/nodes?view=visible", nil)
	requireStatus(t, rec, http.StatusOK)
	var visible nodeListResponse
	decodeJSON(t, rec, &visible)
	if visible.Total != 3 {
		t.Fatalf("expected subgroup child hidden while collapsed, got %d visible", visible.Total)
	}

	if err := g.SetFilter(context.Background(), model.FilterLayer, string(model.LayerDomain)); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	rec = doJSON(t, h, "GET", "/v1/nodes?view=filtered", nil)
	var filtered nodeListResponse
	decodeJSON(t, rec, &filtered)
	if filtered.Total != 2 {
		t.Fatalf("expected 2 domain nodes, got %d", filtered.Total)
	}

	rec = doJSON(t, h, "GET", "/v1/nodes?view=unclear", nil)
	var unclear nodeListResponse
	decodeJSON(t, rec, &unclear)
	if unclear.Nodes == nil || unclear.Total != 0 {
		t.Fatalf("expected empty non-nil unclear list, got %+v", unclear)
	}

	rec = doJSON(t, h, "GET", "/v1/nodes?view=bogus", nil)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestHandleAddNode(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/v1/nodes", map[string]any{
		"layer": "storytelling",
		"title": "Theme",
	})
	requireStatus(t, rec, http.StatusCreated)
	var res model.Result
	decodeJSON(t, rec, &res)
	if !res.Success || res.Node == nil {
		t.Fatalf("expected success with node, got %+v", res)
	}
	if res.Node.ID == "" {
		t.Fatal("expected generated ID")
	}
	if _, ok := g.NodeByID(res.Node.ID); !ok {
		t.Fatal("expected node in store")
	}
}

func TestHandleAddNode_BuildModeValidation(t *testing.T) {
	_, _, h := newTestServer(t, graph.WithMode(model.ModeBuild))

	rec := doJSON(t, h, "POST", "/v1/nodes", map[string]any{"layer": "domain", "title": "Grade"})
	requireStatus(t, rec, http.StatusBadRequest)
	var res model.Result
	decodeJSON(t, rec, &res)
	if res.Error != model.CodeMissingDomain {
		t.Fatalf("expected %q, got %q", model.CodeMissingDomain, res.Error)
	}
}

func TestHandleGetNode(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/nodes/premise", nil)
	requireStatus(t, rec, http.StatusOK)
	var d nodeDetail
	decodeJSON(t, rec, &d)
	if d.Node.Title != "Premise" {
		t.Fatalf("expected Premise, got %q", d.Node.Title)
	}
	if len(d.Connections) != 2 {
		t.Fatalf("expected 2 connections including the dangling one, got %d", len(d.Connections))
	}
	if !d.Visible || d.GroupParent {
		t.Fatalf("unexpected flags: %+v", d)
	}

	rec = doJSON(t, h, "GET", "/v1/nodes/lighting", nil)
	decodeJSON(t, rec, &d)
	if !d.GroupParent || d.Expanded {
		t.Fatalf("expected collapsed group parent, got %+v", d)
	}
}

func TestHandleUpdateNode(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "PATCH", "/v1/nodes/midpoint", map[string]any{"definition": "The turn."})
	requireStatus(t, rec, http.StatusOK)
	n, _ := g.NodeByID("midpoint")
	if n.Definition != "The turn." || n.Title != "Midpoint" {
		t.Fatalf("expected merged update, got %+v", n)
	}
}

func TestHandleDeleteNode_Cascades(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "DELETE", "/v1/nodes/premise", nil)
	requireStatus(t, rec, http.StatusOK)
	var res deleteNodeResponse
	decodeJSON(t, rec, &res)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.RemovedConnections) != 2 {
		t.Fatalf("expected 2 removed connections, got %v", res.RemovedConnections)
	}
	if got := len(g.Connections()); got != 1 {
		t.Fatalf("expected 1 connection left, got %d", got)
	}
}

func TestHandleUpdateNote(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "PUT", "/v1/nodes/premise/note", map[string]any{"text": "watch Jaws again"})
	requireStatus(t, rec, http.StatusOK)
	n, _ := g.NodeByID("premise")
	if n.PersonalNote != "watch Jaws again" {
		t.Fatalf("expected note saved, got %q", n.PersonalNote)
	}
}

func TestHandleNodeConnections_Unknown(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/nodes/nope/connections", nil)
	requireStatus(t, rec, http.StatusOK)
	var body connectionListResponse
	decodeJSON(t, rec, &body)
	if body.Connections == nil || body.Total != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", body)
	}
}

func TestHandleConnections(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/connections?resolved=true", nil)
	var resolved connectionListResponse
	decodeJSON(t, rec, &resolved)
	if resolved.Total != 2 {
		t.Fatalf("expected dangling connection filtered, got %d", resolved.Total)
	}

	rec = doJSON(t, h, "POST", "/v1/connections", map[string]any{
		"from":     "lighting",
		"to":       "premise",
		"strength": 9,
	})
	requireStatus(t, rec, http.StatusCreated)
	var res model.Result
	decodeJSON(t, rec, &res)
	if res.Connection == nil || res.Connection.Strength != model.MaxStrength {
		t.Fatalf("expected clamped strength, got %+v", res.Connection)
	}

	rec = doJSON(t, h, "DELETE", "/v1/connections/"+res.Connection.ID, nil)
	requireStatus(t, rec, http.StatusOK)
	if got := len(g.Connections()); got != len(testConnections) {
		t.Fatalf("expected %d connections after delete, got %d", len(testConnections), got)
	}
}

func TestHandleSetMode(t *testing.T) {
	_, g, h := newTestServer(t)
	if _, err := g.UpdateNode(context.Background(), "midpoint", model.NodeUpdate{Unclear: boolPtr(true)}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}

	rec := doJSON(t, h, "PUT", "/v1/mode", map[string]any{"mode": "build"})
	requireStatus(t, rec, http.StatusOK)
	var res modeResponse
	decodeJSON(t, rec, &res)
	if res.Mode != model.ModeBuild {
		t.Fatalf("expected build, got %q", res.Mode)
	}
	if len(res.UnclearNodes) != 1 || res.UnclearNodes[0].ID != "midpoint" {
		t.Fatalf("expected midpoint flagged unclear, got %+v", res.UnclearNodes)
	}
	if g.Mode() != model.ModeBuild {
		t.Fatal("expected store mode updated")
	}
}

func TestHandleSelection(t *testing.T) {
	_, g, h := newTestServer(t)

	requireStatus(t, doJSON(t, h, "PUT", "/v1/selection", map[string]any{"nodeId": "premise"}), http.StatusOK)
	if g.SelectedNodeID() != "premise" {
		t.Fatalf("expected premise selected, got %q", g.SelectedNodeID())
	}
	requireStatus(t, doJSON(t, h, "DELETE", "/v1/selection", nil), http.StatusOK)
	if g.SelectedNodeID() != "" {
		t.Fatalf("expected selection cleared, got %q", g.SelectedNodeID())
	}
}

func TestHandleFilters(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "PUT", "/v1/filters/intent", map[string]any{"value": "question"})
	requireStatus(t, rec, http.StatusOK)
	var f model.Filters
	decodeJSON(t, rec, &f)
	if f.Intent != "question" {
		t.Fatalf("expected intent filter, got %+v", f)
	}

	rec = doJSON(t, h, "DELETE", "/v1/filters", nil)
	requireStatus(t, rec, http.StatusOK)
	f = model.Filters{}
	decodeJSON(t, rec, &f)
	if !f.IsEmpty() {
		t.Fatalf("expected cleared filters, got %+v", f)
	}
}

func TestHandleToggleGroup(t *testing.T) {
	_, g, h := newTestServer(t)

	rec := doJSON(t, h, "POST", "/v1/groups/lighting/toggle", nil)
	requireStatus(t, rec, http.StatusOK)
	var res toggleResponse
	decodeJSON(t, rec, &res)
	if !res.Expanded || !g.IsExpanded("lighting") {
		t.Fatalf("expected lighting expanded, got %+v", res)
	}
	if !g.IsNodeVisible("key-light") {
		t.Fatal("expected child visible once parent is expanded")
	}
}

func TestHandleReset(t *testing.T) {
	_, g, h := newTestServer(t)
	if _, err := g.DeleteNode(context.Background(), "premise"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	requireStatus(t, doJSON(t, h, "POST", "/v1/reset", nil), http.StatusOK)
	if got := len(g.Nodes()); got != len(testNodes) {
		t.Fatalf("expected seed restored, got %d nodes", got)
	}
}

func TestHandleGetGraph(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/graph", nil)
	requireStatus(t, rec, http.StatusOK)
	var view graphView
	decodeJSON(t, rec, &view)
	if len(view.Connections) != 2 {
		t.Fatalf("expected resolved connections only, got %d", len(view.Connections))
	}
	if len(view.Styles) != len(testNodes) {
		t.Fatalf("expected a style per node, got %d", len(view.Styles))
	}
	if view.Styles["lighting"].Color == "" {
		t.Fatal("expected lighting style to carry a color")
	}
}

func TestHandleGetTaxonomy(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := doJSON(t, h, "GET", "/v1/taxonomy", nil)
	requireStatus(t, rec, http.StatusOK)
	var view taxonomyView
	decodeJSON(t, rec, &view)
	if len(view.Layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(view.Layers))
	}
	if len(view.Domains) != len(model.AllDomains) {
		t.Fatalf("expected %d domains, got %d", len(model.AllDomains), len(view.Domains))
	}
}

func TestHandleGetState(t *testing.T) {
	_, g, h := newTestServer(t)
	g.SelectNode(context.Background(), "midpoint")

	rec := doJSON(t, h, "GET", "/v1/state", nil)
	requireStatus(t, rec, http.StatusOK)
	var st model.State
	decodeJSON(t, rec, &st)
	if st.SelectedNodeID != "midpoint" || len(st.Nodes) != len(testNodes) {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestHandleExportImport(t *testing.T) {
	_, _, src := newTestServer(t)
	rec := doJSON(t, src, "GET", "/v1/export", nil)
	requireStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("expected ndjson content type, got %q", ct)
	}
	export := rec.Body.Bytes()

	_, dst, h := newTestServer(t, graph.WithSeed([]model.Node{{ID: "only", Layer: model.LayerStructure, Title: "Only"}}, nil))
	req := httptest.NewRequest("POST", "/v1/import", bytes.NewReader(export))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	var res importResponse
	decodeJSON(t, rec, &res)
	if res.Nodes != len(testNodes) || res.Connections != len(testConnections) {
		t.Fatalf("expected full graph imported, got %+v", res)
	}
	if _, ok := dst.NodeByID("only"); ok {
		t.Fatal("expected import to replace the existing graph")
	}
}

func TestHandleImport_Invalid(t *testing.T) {
	_, g, h := newTestServer(t)
	req := httptest.NewRequest("POST", "/v1/import", strings.NewReader(`{"type":"node","data":{}}`+"\n"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusBadRequest)
	if got := len(g.Nodes()); got != len(testNodes) {
		t.Fatalf("expected graph untouched, got %d nodes", got)
	}
}

func TestNewHTTPHandler_Auth(t *testing.T) {
	s, _, _ := newTestServer(t)
	h := s.NewHTTPHandler("secret")

	requireStatus(t, doJSON(t, h, "GET", "/v1/health", nil), http.StatusOK)
	requireStatus(t, doJSON(t, h, "GET", "/v1/nodes", nil), http.StatusUnauthorized)

	req := httptest.NewRequest("GET", "/v1/nodes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)
}

func boolPtr(v bool) *bool { return &v }
