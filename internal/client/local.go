package client

import (
	"context"
	"fmt"
	"io"

	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/model"
	cmsync "github.com/alfredjeanlab/cinemap/internal/sync"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
)

// LocalClient implements GraphClient directly over an in-process graph
// store.
type LocalClient struct {
	graph  *graph.Store
	closer io.Closer
}

// NewLocalClient wraps g. closer, when non-nil, is closed by Close; it is
// normally the store backend.
func NewLocalClient(g *graph.Store, closer io.Closer) *LocalClient {
	return &LocalClient{graph: g, closer: closer}
}

func (c *LocalClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// --- Nodes ---

func (c *LocalClient) ListNodes(_ context.Context, view string) ([]model.Node, error) {
	switch view {
	case "", ViewAll:
		return c.graph.Nodes(), nil
	case ViewFiltered:
		return c.graph.FilteredNodes(), nil
	case ViewVisible:
		return c.graph.VisibleNodes(), nil
	case ViewUnclear:
		return c.graph.UnclearNodes(), nil
	}
	return nil, fmt.Errorf("unknown view %q", view)
}

func (c *LocalClient) GetNode(_ context.Context, id string) (*NodeDetail, error) {
	n, ok := c.graph.NodeByID(id)
	if !ok {
		return nil, model.ErrNodeNotFound
	}
	return &NodeDetail{
		Node:        n,
		Connections: c.graph.ConnectionsForNode(id),
		Visible:     c.graph.IsNodeVisible(id),
		GroupParent: c.graph.IsGroupParent(id),
		Expanded:    c.graph.IsExpanded(id),
	}, nil
}

func (c *LocalClient) AddNode(ctx context.Context, in model.NodeInput) (model.Node, error) {
	return c.graph.AddNode(ctx, in)
}

func (c *LocalClient) UpdateNode(ctx context.Context, id string, u model.NodeUpdate) (model.Node, error) {
	return c.graph.UpdateNode(ctx, id, u)
}

func (c *LocalClient) UpdateNodeNotes(ctx context.Context, id, text string) error {
	return c.graph.UpdateNodeNotes(ctx, id, text)
}

func (c *LocalClient) DeleteNode(ctx context.Context, id string) ([]string, error) {
	return c.graph.DeleteNode(ctx, id)
}

func (c *LocalClient) ConnectionsForNode(_ context.Context, id string) ([]model.Connection, error) {
	return c.graph.ConnectionsForNode(id), nil
}

// --- Connections ---

func (c *LocalClient) ListConnections(_ context.Context, resolved bool) ([]model.Connection, error) {
	if resolved {
		return c.graph.ResolvedConnections(), nil
	}
	return c.graph.Connections(), nil
}

func (c *LocalClient) AddConnection(ctx context.Context, in model.ConnectionInput) (model.Connection, error) {
	return c.graph.AddConnection(ctx, in)
}

func (c *LocalClient) DeleteConnection(ctx context.Context, id string) error {
	return c.graph.DeleteConnection(ctx, id)
}

// --- View state ---

func (c *LocalClient) Mode(context.Context) (*ModeStatus, error) {
	return &ModeStatus{Mode: c.graph.Mode(), UnclearNodes: c.graph.UnclearNodes()}, nil
}

func (c *LocalClient) SetMode(ctx context.Context, mode model.Mode) (*ModeStatus, error) {
	if err := c.graph.SetMode(ctx, mode); err != nil {
		return nil, err
	}
	return c.Mode(ctx)
}

func (c *LocalClient) SelectNode(ctx context.Context, id string) error {
	c.graph.SelectNode(ctx, id)
	return nil
}

func (c *LocalClient) DeselectNode(ctx context.Context) error {
	c.graph.DeselectNode(ctx)
	return nil
}

func (c *LocalClient) Filters(context.Context) (model.Filters, error) {
	return c.graph.Filters(), nil
}

func (c *LocalClient) SetFilter(ctx context.Context, key model.FilterKey, value string) (model.Filters, error) {
	if err := c.graph.SetFilter(ctx, key, value); err != nil {
		return model.Filters{}, err
	}
	return c.graph.Filters(), nil
}

func (c *LocalClient) ClearFilters(ctx context.Context) (model.Filters, error) {
	c.graph.ClearFilters(ctx)
	return c.graph.Filters(), nil
}

func (c *LocalClient) ToggleGroup(ctx context.Context, id string) (bool, error) {
	return c.graph.ToggleDomainExpand(ctx, id), nil
}

func (c *LocalClient) Reset(ctx context.Context) error {
	c.graph.Reset(ctx)
	return nil
}

// --- Whole graph ---

func (c *LocalClient) State(context.Context) (model.State, error) {
	return c.graph.Snapshot(), nil
}

func (c *LocalClient) Graph(context.Context) (*GraphView, error) {
	g := c.graph.Graph()
	return &GraphView{Nodes: g.Nodes, Connections: g.Connections, Styles: taxonomy.StylesByID(g.Nodes)}, nil
}

func (c *LocalClient) Export(ctx context.Context, w io.Writer) error {
	return cmsync.ExportJSONL(ctx, c.graph, w)
}

func (c *LocalClient) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	nodes, conns, err := cmsync.ImportJSONL(r)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	c.graph.Replace(ctx, nodes, conns)
	return &ImportResult{Nodes: len(c.graph.Nodes()), Connections: len(c.graph.Connections())}, nil
}

func (c *LocalClient) Health(context.Context) (string, error) {
	return "ok", nil
}
