package domain

// CandidateObject is a read-only view of an external code object
// selected from the graph for classification.
type CandidateObject struct {
	// ID is the graph identifier of the object, when the store exposes one.
	ID string

	// Name is the short object name.
	Name string

	// FullName is the fully qualified object name.
	FullName string

	// Type is the object type label (e.g. "Java Class").
	Type string

	// InternalType is the language/vendor specific sub-kind tag.
	InternalType string

	// Application is the owning application identifier.
	Application string

	// External is true for objects outside the analysed code base.
	External bool
}

// Key returns the de-duplication key of the candidate.
// The graph ID is preferred; objects without one fall back to their identity.
func (c CandidateObject) Key() string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	return "key:" + IdentityKey(c.Name, c.InternalType)
}

// CandidateQuery describes one candidate selection against the graph.
// Exactly one of TypeContains or InternalType is set.
type CandidateQuery struct {
	// Application restricts the selection to one application.
	Application string

	// TypeContains matches objects whose type label contains this string.
	TypeContains string

	// InternalType matches objects with exactly this internal type.
	InternalType string
}
