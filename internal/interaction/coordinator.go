// Package interaction turns pointer input into node-level events: hover,
// click selection with group expansion, double-click editing and connection
// highlighting. It does not own any geometry; hit testing goes through a
// Raycaster and visual emphasis through a Highlighter.
package interaction

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// Graph is the subset of the graph store the coordinator reads and drives.
type Graph interface {
	NodeByID(id string) (model.Node, bool)
	ConnectionsForNode(id string) []model.Connection
	IsGroupParent(id string) bool
	IsExpanded(groupID string) bool
	ToggleDomainExpand(ctx context.Context, groupID string) bool
	SelectedNodeID() string
	SelectNode(ctx context.Context, id string)
	DeselectNode(ctx context.Context)
	Mode() model.Mode
}

// Highlighter receives connection emphasis directives for the renderer.
type Highlighter interface {
	SetConnectionHighlight(connectionID string, on bool)
}

// NoopHighlighter discards highlight directives.
type NoopHighlighter struct{}

func (NoopHighlighter) SetConnectionHighlight(string, bool) {}

// NodeCallback receives the resolved node, or nil when there is none.
type NodeCallback func(n *model.Node)

// Coordinator holds hover state and delegates selection to the graph store.
type Coordinator struct {
	graph       Graph
	raycaster   Raycaster
	highlighter Highlighter

	onHover NodeCallback
	onClick NodeCallback
	onEdit  NodeCallback

	mu      sync.Mutex
	hovered string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithHighlighter(h Highlighter) Option {
	return func(c *Coordinator) { c.highlighter = h }
}

func OnHover(fn NodeCallback) Option {
	return func(c *Coordinator) { c.onHover = fn }
}

func OnClick(fn NodeCallback) Option {
	return func(c *Coordinator) { c.onClick = fn }
}

func OnEdit(fn NodeCallback) Option {
	return func(c *Coordinator) { c.onEdit = fn }
}

// New returns a Coordinator over graph using rc for hit testing.
func New(graph Graph, rc Raycaster, opts ...Option) *Coordinator {
	c := &Coordinator{
		graph:       graph,
		raycaster:   rc,
		highlighter: NoopHighlighter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hovered returns the hovered node ID, or "".
func (c *Coordinator) Hovered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// CheckHover hit-tests r. The nearest hit carrying a node ID becomes the
// hovered node; with no such hit the hover is cleared. The hover callback
// fires either way.
func (c *Coordinator) CheckHover(r Ray) {
	var id string
	for _, h := range c.raycaster.Intersect(r) {
		if h.NodeID != "" {
			id = h.NodeID
			break
		}
	}

	c.mu.Lock()
	c.hovered = id
	c.mu.Unlock()

	if c.onHover != nil {
		c.onHover(c.resolve(id))
	}
}

// Click expands an unexpanded group parent under the pointer, then selects
// the hovered node, or clears the selection when nothing is hovered.
// Highlights move from the previous selection's connections to the new one's.
func (c *Coordinator) Click(ctx context.Context) {
	id := c.Hovered()
	prev := c.graph.SelectedNodeID()

	if id != "" && c.graph.IsGroupParent(id) && !c.graph.IsExpanded(id) {
		c.graph.ToggleDomainExpand(ctx, id)
	}

	if prev != "" {
		c.highlight(prev, false)
	}
	node := c.resolve(id)
	if id != "" {
		c.graph.SelectNode(ctx, id)
		c.highlight(id, true)
	} else {
		c.graph.DeselectNode(ctx)
	}

	if c.onClick != nil {
		c.onClick(node)
	}
}

// DoubleClick opens the editor for the hovered node in build mode.
func (c *Coordinator) DoubleClick(_ context.Context) {
	id := c.Hovered()
	if id == "" || c.graph.Mode() != model.ModeBuild {
		return
	}
	if c.onEdit != nil {
		c.onEdit(c.resolve(id))
	}
}

func (c *Coordinator) highlight(nodeID string, on bool) {
	for _, conn := range c.graph.ConnectionsForNode(nodeID) {
		c.highlighter.SetConnectionHighlight(conn.ID, on)
	}
}

func (c *Coordinator) resolve(id string) *model.Node {
	if id == "" {
		return nil
	}
	n, ok := c.graph.NodeByID(id)
	if !ok {
		return nil
	}
	return &n
}
