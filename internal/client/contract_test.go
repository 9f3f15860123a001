package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/server"
	"github.com/alfredjeanlab/cinemap/internal/store/memory"
)

var contractNodes = []model.Node{
	{ID: "premise", Layer: model.LayerStorytelling, Title: "Premise"},
	{ID: "midpoint", Layer: model.LayerStructure, Title: "Midpoint"},
	{ID: "sound", Layer: model.LayerDomain, Domain: model.DomainSound, Title: "Sound"},
	{ID: "foley", Layer: model.LayerDomain, Domain: model.DomainSound, Subgroup: "sound", Title: "Foley"},
}

var contractConnections = []model.Connection{
	{ID: "c1", From: "premise", To: "midpoint", Explanation: "turn", Strength: 3},
	{ID: "c2", From: "midpoint", To: "gone", Explanation: "dangling", Strength: 2},
}

func newContractGraph() *graph.Store {
	return graph.New(context.Background(), memory.New(),
		graph.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		graph.WithSeed(contractNodes, contractConnections),
	)
}

// clients returns one LocalClient and one HTTPClient, each over its own
// freshly seeded graph.
func clients(t *testing.T) map[string]GraphClient {
	t.Helper()
	local := NewLocalClient(newContractGraph(), nil)

	srv := server.New(newContractGraph(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.NewHTTPHandler("tok"))
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return map[string]GraphClient{
		"local": local,
		"http":  NewHTTPClient(ts.URL, "tok"),
	}
}

func TestLocalClient_ImplementsGraphClient(t *testing.T) {
	var _ GraphClient = (*LocalClient)(nil)
}

func TestContract_NodeLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			n, err := c.AddNode(ctx, model.NodeInput{Layer: model.LayerStructure, Title: "Climax"})
			if err != nil {
				t.Fatalf("AddNode: %v", err)
			}

			title := "Final confrontation"
			updated, err := c.UpdateNode(ctx, n.ID, model.NodeUpdate{Title: &title})
			if err != nil {
				t.Fatalf("UpdateNode: %v", err)
			}
			if updated.Title != title {
				t.Fatalf("title = %q, want %q", updated.Title, title)
			}

			if err := c.UpdateNodeNotes(ctx, n.ID, "see Heat"); err != nil {
				t.Fatalf("UpdateNodeNotes: %v", err)
			}
			d, err := c.GetNode(ctx, n.ID)
			if err != nil {
				t.Fatalf("GetNode: %v", err)
			}
			if d.Node.PersonalNote != "see Heat" {
				t.Fatalf("note = %q", d.Node.PersonalNote)
			}

			if _, err := c.AddConnection(ctx, model.ConnectionInput{From: n.ID, To: "premise"}); err != nil {
				t.Fatalf("AddConnection: %v", err)
			}
			removed, err := c.DeleteNode(ctx, n.ID)
			if err != nil {
				t.Fatalf("DeleteNode: %v", err)
			}
			if len(removed) != 1 {
				t.Fatalf("removed = %v, want one connection", removed)
			}

			if _, err := c.GetNode(ctx, n.ID); !errors.Is(err, model.ErrNodeNotFound) {
				t.Fatalf("GetNode after delete: err = %v, want ErrNodeNotFound", err)
			}
		})
	}
}

func TestContract_Validation(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			st, err := c.SetMode(ctx, model.ModeBuild)
			if err != nil {
				t.Fatalf("SetMode: %v", err)
			}
			if st.Mode != model.ModeBuild {
				t.Fatalf("mode = %q", st.Mode)
			}

			_, err = c.AddNode(ctx, model.NodeInput{Layer: model.LayerStorytelling})
			if !errors.Is(err, model.ErrMissingTitle) {
				t.Fatalf("AddNode: err = %v, want ErrMissingTitle", err)
			}
			_, err = c.AddConnection(ctx, model.ConnectionInput{From: "premise", To: "midpoint"})
			if !errors.Is(err, model.ErrMissingExplanation) {
				t.Fatalf("AddConnection: err = %v, want ErrMissingExplanation", err)
			}
			if _, err := c.SetMode(ctx, "sketch"); !errors.Is(err, model.ErrInvalidMode) {
				t.Fatalf("SetMode: err = %v, want ErrInvalidMode", err)
			}
			if err := c.DeleteConnection(ctx, "nope"); !errors.Is(err, model.ErrConnectionNotFound) {
				t.Fatalf("DeleteConnection: err = %v, want ErrConnectionNotFound", err)
			}
		})
	}
}

func TestContract_ViewState(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			visible, err := c.ListNodes(ctx, ViewVisible)
			if err != nil {
				t.Fatalf("ListNodes: %v", err)
			}
			if len(visible) != 3 {
				t.Fatalf("visible = %d, want 3 with sound collapsed", len(visible))
			}
			expanded, err := c.ToggleGroup(ctx, "sound")
			if err != nil || !expanded {
				t.Fatalf("ToggleGroup = %v, %v", expanded, err)
			}
			visible, _ = c.ListNodes(ctx, ViewVisible)
			if len(visible) != 4 {
				t.Fatalf("visible = %d, want 4 once expanded", len(visible))
			}

			f, err := c.SetFilter(ctx, model.FilterLayer, string(model.LayerDomain))
			if err != nil {
				t.Fatalf("SetFilter: %v", err)
			}
			if f.Layer != model.LayerDomain {
				t.Fatalf("filters = %+v", f)
			}
			filtered, _ := c.ListNodes(ctx, ViewFiltered)
			if len(filtered) != 2 {
				t.Fatalf("filtered = %d, want 2", len(filtered))
			}
			if f, _ := c.ClearFilters(ctx); !f.IsEmpty() {
				t.Fatalf("filters after clear = %+v", f)
			}

			if err := c.SelectNode(ctx, "premise"); err != nil {
				t.Fatalf("SelectNode: %v", err)
			}
			st, err := c.State(ctx)
			if err != nil {
				t.Fatalf("State: %v", err)
			}
			if st.SelectedNodeID != "premise" || len(st.ExpandedGroups) != 1 {
				t.Fatalf("state = %+v", st)
			}
			if err := c.DeselectNode(ctx); err != nil {
				t.Fatalf("DeselectNode: %v", err)
			}

			g, err := c.Graph(ctx)
			if err != nil {
				t.Fatalf("Graph: %v", err)
			}
			if len(g.Connections) != 1 || len(g.Styles) != len(contractNodes) {
				t.Fatalf("graph = %d connections, %d styles", len(g.Connections), len(g.Styles))
			}

			all, _ := c.ListConnections(ctx, false)
			conns, _ := c.ConnectionsForNode(ctx, "midpoint")
			if len(all) != 2 || len(conns) != 2 {
				t.Fatalf("connections = %d, for midpoint = %d", len(all), len(conns))
			}
		})
	}
}

func TestContract_ExportImportReset(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := c.Export(ctx, &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}
			exported := buf.Bytes()

			if _, err := c.DeleteNode(ctx, "premise"); err != nil {
				t.Fatalf("DeleteNode: %v", err)
			}
			res, err := c.Import(ctx, bytes.NewReader(exported))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if res.Nodes != len(contractNodes) || res.Connections != len(contractConnections) {
				t.Fatalf("import = %+v", res)
			}

			if _, err := c.Import(ctx, bytes.NewReader([]byte("garbage\n"))); err == nil {
				t.Fatal("expected import of garbage to fail")
			}

			if _, err := c.DeleteNode(ctx, "midpoint"); err != nil {
				t.Fatalf("DeleteNode: %v", err)
			}
			if err := c.Reset(ctx); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			nodes, _ := c.ListNodes(ctx, ViewAll)
			if len(nodes) != len(contractNodes) {
				t.Fatalf("nodes after reset = %d", len(nodes))
			}
			if status, err := c.Health(ctx); err != nil || status != "ok" {
				t.Fatalf("Health = %q, %v", status, err)
			}
		})
	}
}
