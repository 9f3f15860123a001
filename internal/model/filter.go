package model

import "strings"

// FilterKey names one filter dimension.
type FilterKey string

const (
	FilterLayer  FilterKey = "layer"
	FilterDomain FilterKey = "domain"
	FilterIntent FilterKey = "intent"
)

// IsValid checks whether the filter key is a known value.
func (k FilterKey) IsValid() bool {
	switch k {
	case FilterLayer, FilterDomain, FilterIntent:
		return true
	}
	return false
}

// Filters holds the current node filter criteria. An empty dimension matches
// every node; set dimensions are AND-combined.
type Filters struct {
	Layer  Layer  `json:"layer,omitempty"`
	Domain Domain `json:"domain,omitempty"`
	Intent string `json:"intent,omitempty"` // case-insensitive match on title, definition, problem solved
}

// IsEmpty reports whether no dimension is set.
func (f Filters) IsEmpty() bool {
	return f.Layer == "" && f.Domain == "" && f.Intent == ""
}

// With returns a copy of f with the given dimension set to value.
func (f Filters) With(key FilterKey, value string) Filters {
	switch key {
	case FilterLayer:
		f.Layer = Layer(value)
	case FilterDomain:
		f.Domain = Domain(value)
	case FilterIntent:
		f.Intent = value
	}
	return f
}

// Matches reports whether the node satisfies every set dimension.
func (f Filters) Matches(n Node) bool {
	if f.Layer != "" && n.Layer != f.Layer {
		return false
	}
	if f.Domain != "" && n.Domain != f.Domain {
		return false
	}
	if intent := strings.ToLower(strings.TrimSpace(f.Intent)); intent != "" {
		haystack := strings.ToLower(n.Title + "\n" + n.Definition + "\n" + n.ProblemSolved)
		if !strings.Contains(haystack, intent) {
			return false
		}
	}
	return true
}
