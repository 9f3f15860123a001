package model

import (
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/idgen"
)

// Strength bounds for a connection. DefaultStrength applies when the input
// leaves strength unset.
const (
	MinStrength     = 1
	MaxStrength     = 5
	DefaultStrength = 3
)

// Connection is a directed, annotated edge between two node IDs. Endpoints
// need not exist in the store.
type Connection struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Explanation string `json:"explanation"`
	Strength    int    `json:"strength"`
}

// Touches reports whether the node is either endpoint of the connection.
func (c Connection) Touches(nodeID string) bool {
	return c.From == nodeID || c.To == nodeID
}

// ConnectionInput is the partial accepted by CreateConnection.
type ConnectionInput struct {
	ID          string `json:"id,omitempty"`
	From        string `json:"from"`
	To          string `json:"to"`
	Explanation string `json:"explanation,omitempty"`
	Strength    *int   `json:"strength,omitempty"`
}

// ClampStrength forces v into [MinStrength, MaxStrength].
func ClampStrength(v int) int {
	return min(MaxStrength, max(MinStrength, v))
}

// CreateConnection builds a Connection from the input, generating an ID when
// absent and clamping the strength.
func CreateConnection(in ConnectionInput) (Connection, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		var err error
		if id, err = idgen.ConnectionID(); err != nil {
			return Connection{}, err
		}
	}
	strength := DefaultStrength
	if in.Strength != nil {
		strength = *in.Strength
	}
	return Connection{
		ID:          id,
		From:        in.From,
		To:          in.To,
		Explanation: in.Explanation,
		Strength:    ClampStrength(strength),
	}, nil
}
