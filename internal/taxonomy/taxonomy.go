package taxonomy

import (
	"math"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// Ring layout for the 3D map: each layer sits on its own horizontal ring,
// subgroup children orbit their parent domain node.
const (
	storyRadius  = 18.0
	structRadius = 30.0
	domainRadius = 44.0
	childRadius  = 7.0

	storyY  = 16.0
	structY = 0.0
	domainY = -16.0
	childY  = -22.0
)

// DefaultNodes returns a fresh copy of the seed nodes with their positions
// laid out.
func DefaultNodes() []model.Node {
	out := make([]model.Node, len(seedNodes))
	copy(out, seedNodes)
	layout(out)
	return out
}

// DefaultConnections returns a fresh copy of the seed connections.
func DefaultConnections() []model.Connection {
	out := make([]model.Connection, len(seedConnections))
	copy(out, seedConnections)
	return out
}

// Subgroups maps each parent domain node ID to its child node IDs in seed
// order.
func Subgroups() map[string][]string {
	groups := make(map[string][]string)
	for _, n := range seedNodes {
		if n.Subgroup != "" {
			groups[n.Subgroup] = append(groups[n.Subgroup], n.ID)
		}
	}
	return groups
}

func layout(nodes []model.Node) {
	var story, structure, parents []int
	children := make(map[string][]int)
	for i, n := range nodes {
		switch {
		case n.Subgroup != "":
			children[n.Subgroup] = append(children[n.Subgroup], i)
		case n.Layer == model.LayerStorytelling:
			story = append(story, i)
		case n.Layer == model.LayerStructure:
			structure = append(structure, i)
		default:
			parents = append(parents, i)
		}
	}

	ring(nodes, story, model.Position{Y: storyY}, storyRadius, 0)
	ring(nodes, structure, model.Position{Y: structY}, structRadius, math.Pi/8)
	ring(nodes, parents, model.Position{Y: domainY}, domainRadius, 0)
	for _, p := range parents {
		center := nodes[p].Position
		center.Y = childY
		ring(nodes, children[nodes[p].ID], center, childRadius, 0)
	}
}

func ring(nodes []model.Node, idx []int, center model.Position, radius, offset float64) {
	for k, i := range idx {
		angle := offset + 2*math.Pi*float64(k)/float64(len(idx))
		nodes[i].Position = model.Position{
			X: round(center.X + radius*math.Cos(angle)),
			Y: center.Y,
			Z: round(center.Z + radius*math.Sin(angle)),
		}
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
