package events

import (
	"context"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// Event topic constants
const (
	TopicNodeCreated = "cinemap.node.created"
	TopicNodeUpdated = "cinemap.node.updated"
	TopicNodeDeleted = "cinemap.node.deleted"

	TopicConnectionAdded   = "cinemap.connection.added"
	TopicConnectionDeleted = "cinemap.connection.deleted"

	TopicGraphReset  = "cinemap.graph.reset"
	TopicModeChanged = "cinemap.mode.changed"

	// TopicAll matches every graph event.
	TopicAll = "cinemap.>"
)

// Event types

type NodeCreated struct {
	Node model.Node `json:"node"`
}

type NodeUpdated struct {
	Node   model.Node `json:"node"`
	Fields []string   `json:"fields"` // JSON names of the changed fields
}

type NodeDeleted struct {
	NodeID string `json:"node_id"`
	// ConnectionIDs lists the connections removed along with the node.
	ConnectionIDs []string `json:"connection_ids,omitempty"`
}

type ConnectionAdded struct {
	Connection model.Connection `json:"connection"`
}

type ConnectionDeleted struct {
	ConnectionID string `json:"connection_id"`
}

type GraphReset struct {
	Nodes       int `json:"nodes"`
	Connections int `json:"connections"`
}

type ModeChanged struct {
	From model.Mode `json:"from"`
	To   model.Mode `json:"to"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
