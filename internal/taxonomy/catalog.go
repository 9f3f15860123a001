// Package taxonomy holds the static catalog the graph store is seeded with:
// layer and domain style categories, the default concept nodes with their
// subgroups, and the default connections between them.
package taxonomy

import "github.com/alfredjeanlab/cinemap/internal/model"

// Style is the presentation category a renderer uses for a node.
type Style struct {
	Color string `json:"color"` // hex, e.g. "#f2b134"
	Glyph string `json:"glyph"`
}

// LayerInfo describes one layer of the map.
type LayerInfo struct {
	Layer       model.Layer `json:"layer"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Style       Style       `json:"style"`
}

// DomainInfo describes one craft domain.
type DomainInfo struct {
	Domain      model.Domain `json:"domain"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Style       Style        `json:"style"`
}

var layers = []LayerInfo{
	{
		Layer:       model.LayerStorytelling,
		Label:       "Storytelling",
		Description: "What the story means and why an audience keeps watching.",
		Style:       Style{Color: "#f2b134", Glyph: "◆"},
	},
	{
		Layer:       model.LayerStructure,
		Label:       "Structure",
		Description: "How the story is arranged in time: acts, turns and beats.",
		Style:       Style{Color: "#4fb0c6", Glyph: "■"},
	},
	{
		Layer:       model.LayerDomain,
		Label:       "Craft domains",
		Description: "The filmmaking crafts that put story and structure on screen.",
		Style:       Style{Color: "#9a8fd1", Glyph: "●"},
	},
}

var domains = []DomainInfo{
	{model.DomainCinematography, "Cinematography", "Lens, frame and camera choices.", Style{Color: "#e4572e", Glyph: "◎"}},
	{model.DomainLighting, "Lighting", "Shaping light to direct attention and mood.", Style{Color: "#ffc914", Glyph: "☼"}},
	{model.DomainColor, "Color", "Palette, temperature and grading.", Style{Color: "#e83f6f", Glyph: "◐"}},
	{model.DomainSound, "Sound", "Dialogue, effects, ambience and score.", Style{Color: "#2e86ab", Glyph: "♪"}},
	{model.DomainEditing, "Editing", "Cut placement, rhythm and juxtaposition.", Style{Color: "#76b041", Glyph: "✂"}},
	{model.DomainMotion, "Motion", "Movement of camera and elements through time.", Style{Color: "#17bebb", Glyph: "↝"}},
	{model.DomainProductionDesign, "Production design", "Sets, props and costume as storytelling.", Style{Color: "#a05c34", Glyph: "⌂"}},
	{model.DomainPerformance, "Performance", "Actors, blocking and behavior on camera.", Style{Color: "#c17fd6", Glyph: "☺"}},
}

// Layers returns the layer catalog in display order.
func Layers() []LayerInfo {
	out := make([]LayerInfo, len(layers))
	copy(out, layers)
	return out
}

// Domains returns the domain catalog in display order.
func Domains() []DomainInfo {
	out := make([]DomainInfo, len(domains))
	copy(out, domains)
	return out
}

// StyleFor resolves the style of a node: its domain's style for domain-layer
// nodes, otherwise its layer's style. Unknown values get a neutral style.
func StyleFor(layer model.Layer, domain model.Domain) Style {
	if layer == model.LayerDomain {
		for _, d := range domains {
			if d.Domain == domain {
				return d.Style
			}
		}
	}
	for _, l := range layers {
		if l.Layer == layer {
			return l.Style
		}
	}
	return Style{Color: "#9e9e9e", Glyph: "·"}
}

// StylesByID maps each node ID to its style.
func StylesByID(nodes []model.Node) map[string]Style {
	out := make(map[string]Style, len(nodes))
	for _, n := range nodes {
		out[n.ID] = StyleFor(n.Layer, n.Domain)
	}
	return out
}
