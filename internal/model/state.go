package model

// State is a point-in-time copy of everything the graph store owns. It is
// what subscribers receive on every notification.
type State struct {
	Nodes          []Node       `json:"nodes"`
	Connections    []Connection `json:"connections"`
	Mode           Mode         `json:"mode"`
	SelectedNodeID string       `json:"selectedNodeId,omitempty"`
	Filters        Filters      `json:"filters"`
	ExpandedGroups []string     `json:"expandedGroups"`
}

// Graph is the payload handed to renderers: nodes plus only those
// connections whose endpoints both exist.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}
