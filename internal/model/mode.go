package model

// Mode governs how strictly the graph store validates mutations.
type Mode string

const (
	// ModeExplore accepts provisional and unclear entries without validation.
	ModeExplore Mode = "explore"
	// ModeBuild validates every node and connection before committing it.
	ModeBuild Mode = "build"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid checks whether the mode is a known value.
func (m Mode) IsValid() bool {
	return m == ModeExplore || m == ModeBuild
}

// IsStrict reports whether the mode enforces validation.
func (m Mode) IsStrict() bool {
	return m == ModeBuild
}
