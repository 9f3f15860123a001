package model

import "strings"

// ValidateNode checks a node against the build-mode rules and returns the
// first violation, or nil if the node is valid. It has no enforcement power of
// its own; the graph store calls it only in build mode.
func ValidateNode(n Node) error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(string(n.Layer)) == "" {
		return ErrMissingLayer
	}
	if !n.Layer.IsValid() {
		return ErrInvalidLayer
	}
	if n.Layer == LayerDomain {
		if strings.TrimSpace(string(n.Domain)) == "" {
			return ErrMissingDomain
		}
		if !n.Domain.IsValid() {
			return ErrInvalidDomain
		}
	}
	return nil
}

// ValidateConnection checks a connection input against the rules for the
// given mode.
func ValidateConnection(in ConnectionInput, mode Mode) error {
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" {
		return ErrMissingEndpoint
	}
	if mode.IsStrict() && strings.TrimSpace(in.Explanation) == "" {
		return ErrMissingExplanation
	}
	return nil
}
