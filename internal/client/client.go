// Package client provides a transport-agnostic interface for the cinemap
// graph and two implementations: an HTTP/JSON client for a running server
// and an in-process client over a graph store.
package client

import (
	"context"
	"io"

	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
)

// GraphClient is the interface every cm command uses to reach the graph. It
// is implemented by HTTPClient (when a server URL is configured) and
// LocalClient (the default).
type GraphClient interface {
	// Nodes
	ListNodes(ctx context.Context, view string) ([]model.Node, error)
	GetNode(ctx context.Context, id string) (*NodeDetail, error)
	AddNode(ctx context.Context, in model.NodeInput) (model.Node, error)
	UpdateNode(ctx context.Context, id string, u model.NodeUpdate) (model.Node, error)
	UpdateNodeNotes(ctx context.Context, id, text string) error
	DeleteNode(ctx context.Context, id string) ([]string, error)
	ConnectionsForNode(ctx context.Context, id string) ([]model.Connection, error)

	// Connections
	ListConnections(ctx context.Context, resolved bool) ([]model.Connection, error)
	AddConnection(ctx context.Context, in model.ConnectionInput) (model.Connection, error)
	DeleteConnection(ctx context.Context, id string) error

	// View state
	Mode(ctx context.Context) (*ModeStatus, error)
	SetMode(ctx context.Context, mode model.Mode) (*ModeStatus, error)
	SelectNode(ctx context.Context, id string) error
	DeselectNode(ctx context.Context) error
	Filters(ctx context.Context) (model.Filters, error)
	SetFilter(ctx context.Context, key model.FilterKey, value string) (model.Filters, error)
	ClearFilters(ctx context.Context) (model.Filters, error)
	ToggleGroup(ctx context.Context, id string) (bool, error)
	Reset(ctx context.Context) error

	// Whole graph
	State(ctx context.Context) (model.State, error)
	Graph(ctx context.Context) (*GraphView, error)
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// Node list views accepted by ListNodes.
const (
	ViewAll      = "all"
	ViewFiltered = "filtered"
	ViewVisible  = "visible"
	ViewUnclear  = "unclear"
)

// NodeDetail is a node with its connections and visibility flags.
type NodeDetail struct {
	Node        model.Node         `json:"node"`
	Connections []model.Connection `json:"connections"`
	Visible     bool               `json:"visible"`
	GroupParent bool               `json:"groupParent"`
	Expanded    bool               `json:"expanded"`
}

// ModeStatus is the current mode plus the nodes flagged unclear.
type ModeStatus struct {
	Mode         model.Mode   `json:"mode"`
	UnclearNodes []model.Node `json:"unclearNodes"`
}

// GraphView is the render payload with a style per node ID.
type GraphView struct {
	Nodes       []model.Node              `json:"nodes"`
	Connections []model.Connection        `json:"connections"`
	Styles      map[string]taxonomy.Style `json:"styles"`
}

// ImportResult reports the size of the graph after an import.
type ImportResult struct {
	Nodes       int `json:"nodes"`
	Connections int `json:"connections"`
}
