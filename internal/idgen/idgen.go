// Package idgen mints IDs for nodes and connections that arrive without one.
// IDs are a kind prefix followed by a nanoid drawn from an alphanumeric
// alphabet, so they are safe in URL paths and NATS subjects alike.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	NodePrefix       = "node-"
	ConnectionPrefix = "conn-"

	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Size is the length of the random part. 62^10 keeps collisions out of
	// reach for any hand-built map.
	Size = 10
)

func NodeID() (string, error) { return mint(NodePrefix) }

func ConnectionID() (string, error) { return mint(ConnectionPrefix) }

func mint(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, Size)
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", strings.TrimSuffix(prefix, "-"), err)
	}
	return prefix + id, nil
}
