package model

import (
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/idgen"
)

// Layer is the top-level classification of a node.
type Layer string

const (
	LayerStorytelling Layer = "storytelling"
	LayerStructure    Layer = "structure"
	LayerDomain       Layer = "domain"
)

// String returns the string representation of the layer.
func (l Layer) String() string {
	return string(l)
}

// IsValid checks whether the layer is a known value.
func (l Layer) IsValid() bool {
	switch l {
	case LayerStorytelling, LayerStructure, LayerDomain:
		return true
	}
	return false
}

// Domain is the sub-classification carried by domain-layer nodes.
// The set is closed.
type Domain string

const (
	DomainCinematography   Domain = "cinematography"
	DomainLighting         Domain = "lighting"
	DomainColor            Domain = "color"
	DomainSound            Domain = "sound"
	DomainEditing          Domain = "editing"
	DomainMotion           Domain = "motion"
	DomainProductionDesign Domain = "production-design"
	DomainPerformance      Domain = "performance"
)

// AllDomains lists every domain in display order.
var AllDomains = []Domain{
	DomainCinematography,
	DomainLighting,
	DomainColor,
	DomainSound,
	DomainEditing,
	DomainMotion,
	DomainProductionDesign,
	DomainPerformance,
}

// String returns the string representation of the domain.
func (d Domain) String() string {
	return string(d)
}

// IsValid checks whether the domain is a known value.
func (d Domain) IsValid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}

// Position is a point in the 3D scene.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Node is a labeled concept in the graph.
type Node struct {
	ID                string   `json:"id"`
	Layer             Layer    `json:"layer"`
	Domain            Domain   `json:"domain,omitempty"`
	Subgroup          string   `json:"subgroup,omitempty"` // parent domain node ID
	Title             string   `json:"title"`
	Definition        string   `json:"definition"`
	ProblemSolved     string   `json:"problemSolved"`
	MisuseConsequence string   `json:"misuseConsequence"`
	Example           string   `json:"example"`
	PersonalNote      string   `json:"personalNote"`
	Position          Position `json:"position"`
	Unclear           bool     `json:"unclear"`
}

// NodeInput is the partial accepted by CreateNode. Omitted fields keep their
// zero values.
type NodeInput struct {
	ID                string   `json:"id,omitempty"`
	Layer             Layer    `json:"layer"`
	Domain            Domain   `json:"domain,omitempty"`
	Subgroup          string   `json:"subgroup,omitempty"`
	Title             string   `json:"title"`
	Definition        string   `json:"definition,omitempty"`
	ProblemSolved     string   `json:"problemSolved,omitempty"`
	MisuseConsequence string   `json:"misuseConsequence,omitempty"`
	Example           string   `json:"example,omitempty"`
	PersonalNote      string   `json:"personalNote,omitempty"`
	Position          Position `json:"position"`
	Unclear           bool     `json:"unclear,omitempty"`
}

// CreateNode builds a Node from the input, generating an ID when absent.
// The domain is dropped for nodes outside the domain layer so that a domain is
// only ever carried by domain-layer nodes.
func CreateNode(in NodeInput) (Node, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		var err error
		if id, err = idgen.NodeID(); err != nil {
			return Node{}, err
		}
	}
	n := Node{
		ID:                id,
		Layer:             in.Layer,
		Domain:            in.Domain,
		Subgroup:          in.Subgroup,
		Title:             in.Title,
		Definition:        in.Definition,
		ProblemSolved:     in.ProblemSolved,
		MisuseConsequence: in.MisuseConsequence,
		Example:           in.Example,
		PersonalNote:      in.PersonalNote,
		Position:          in.Position,
		Unclear:           in.Unclear,
	}
	return normalizeNode(n), nil
}

func normalizeNode(n Node) Node {
	if n.Layer != LayerDomain {
		n.Domain = ""
	}
	return n
}

// NodeUpdate is the whitelist of fields UpdateNode may change. Nil fields are
// left untouched; the node ID can never be changed.
type NodeUpdate struct {
	Layer             *Layer    `json:"layer,omitempty"`
	Domain            *Domain   `json:"domain,omitempty"`
	Subgroup          *string   `json:"subgroup,omitempty"`
	Title             *string   `json:"title,omitempty"`
	Definition        *string   `json:"definition,omitempty"`
	ProblemSolved     *string   `json:"problemSolved,omitempty"`
	MisuseConsequence *string   `json:"misuseConsequence,omitempty"`
	Example           *string   `json:"example,omitempty"`
	PersonalNote      *string   `json:"personalNote,omitempty"`
	Position          *Position `json:"position,omitempty"`
	Unclear           *bool     `json:"unclear,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u NodeUpdate) IsEmpty() bool {
	return u.Layer == nil && u.Domain == nil && u.Subgroup == nil && u.Title == nil &&
		u.Definition == nil && u.ProblemSolved == nil && u.MisuseConsequence == nil &&
		u.Example == nil && u.PersonalNote == nil && u.Position == nil && u.Unclear == nil
}

// Apply returns a copy of n with the non-nil fields of u applied.
func (u NodeUpdate) Apply(n Node) Node {
	if u.Layer != nil {
		n.Layer = *u.Layer
	}
	if u.Domain != nil {
		n.Domain = *u.Domain
	}
	if u.Subgroup != nil {
		n.Subgroup = *u.Subgroup
	}
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Definition != nil {
		n.Definition = *u.Definition
	}
	if u.ProblemSolved != nil {
		n.ProblemSolved = *u.ProblemSolved
	}
	if u.MisuseConsequence != nil {
		n.MisuseConsequence = *u.MisuseConsequence
	}
	if u.Example != nil {
		n.Example = *u.Example
	}
	if u.PersonalNote != nil {
		n.PersonalNote = *u.PersonalNote
	}
	if u.Position != nil {
		n.Position = *u.Position
	}
	if u.Unclear != nil {
		n.Unclear = *u.Unclear
	}
	return normalizeNode(n)
}

// Fields returns the JSON names of the fields the update sets, used for
// change events.
func (u NodeUpdate) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Layer != nil, "layer")
	add(u.Domain != nil, "domain")
	add(u.Subgroup != nil, "subgroup")
	add(u.Title != nil, "title")
	add(u.Definition != nil, "definition")
	add(u.ProblemSolved != nil, "problemSolved")
	add(u.MisuseConsequence != nil, "misuseConsequence")
	add(u.Example != nil, "example")
	add(u.PersonalNote != nil, "personalNote")
	add(u.Position != nil, "position")
	add(u.Unclear != nil, "unclear")
	return fields
}
