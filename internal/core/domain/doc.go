// Package domain defines the core business entities for Artemis.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CandidateObject: An external code object read from the graph
//   - ClassificationResult: Classifier output for a candidate name
//   - FrameworkRecord: A persisted framework verdict
//   - LanguageProfile: How candidates of a language are selected
//   - Settings: The immutable runtime configuration
//
// It also holds the pure decision table (Evaluate) that turns a
// classification into a verdict.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
