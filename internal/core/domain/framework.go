package domain

import (
	"fmt"
	"strings"
	"time"
)

// FrameworkType is the persisted verdict of a framework record.
type FrameworkType string

// Framework verdicts.
const (
	FrameworkTypeFramework     FrameworkType = "FRAMEWORK"
	FrameworkTypeNotFramework  FrameworkType = "NOT_FRAMEWORK"
	FrameworkTypeToInvestigate FrameworkType = "TO_INVESTIGATE"
)

// IsValid returns true if the framework type is recognised.
func (t FrameworkType) IsValid() bool {
	switch t {
	case FrameworkTypeFramework, FrameworkTypeNotFramework, FrameworkTypeToInvestigate:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FrameworkType) String() string {
	return string(t)
}

// ParseFrameworkType parses a verdict name, case-insensitively.
// An empty string parses to the empty type.
func ParseFrameworkType(s string) (FrameworkType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t := FrameworkType(strings.ToUpper(strings.ReplaceAll(s, " ", "_")))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown framework type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// DiscoveryDateLayout is the layout of FrameworkRecord.DiscoveryDate.
const DiscoveryDateLayout = "2006-01-02 15:04:05"

// NoLocation is the location recorded for locally detected frameworks.
const NoLocation = "No location discovered"

// FrameworkRecord is a catalog entry identified by (Name, InternalType).
type FrameworkRecord struct {
	// Name is the framework name (identity, part 1).
	Name string

	// InternalType is the internal type tag (identity, part 2).
	InternalType string

	// DiscoveryDate is when the framework was first discovered.
	DiscoveryDate string

	// Location is where the framework can be found (URL, registry, ...).
	Location string

	// Description is a free-text description.
	Description string

	// Type is the verdict produced by the last policy evaluation.
	Type FrameworkType

	// Category is a free-form grouping (e.g. "Logging", "Web").
	Category string

	// NumberOfDetections counts how many times the identity was detected.
	NumberOfDetections int64

	// PercentageOfDetection is a caller supplied share in [0,100].
	PercentageOfDetection float64

	// DetectionScore is the top classifier probability in [0,1].
	DetectionScore float64

	// CreatedAt is when the record was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the record was last stored.
	UpdatedAt time.Time
}

// IdentityKey builds the composite identity key of a record.
func IdentityKey(name, internalType string) string {
	return name + "\x00" + internalType
}

// Key returns the composite identity key of the record.
func (r FrameworkRecord) Key() string {
	return IdentityKey(r.Name, r.InternalType)
}

// Validate checks the record invariants.
func (r FrameworkRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: framework name is required", ErrInvalidInput)
	}
	if r.Type != "" && !r.Type.IsValid() {
		return fmt.Errorf("%w: unknown framework type %q", ErrInvalidInput, r.Type)
	}
	if r.NumberOfDetections < 0 {
		return fmt.Errorf("%w: number of detections cannot be negative", ErrInvalidInput)
	}
	if r.DetectionScore < 0 || r.DetectionScore > 1 {
		return fmt.Errorf("%w: detection score must be between 0 and 1", ErrInvalidInput)
	}
	if r.PercentageOfDetection < 0 || r.PercentageOfDetection > 100 {
		return fmt.Errorf("%w: percentage of detection must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// MergeDetection returns the record stored after detecting incoming again.
// Every merge counts one more detection. Non-empty incoming fields replace
// stored ones; empty or zero fields keep the stored value. A stored
// DiscoveryDate is never moved by a later detection. Applying the same
// incoming record twice changes nothing but the counter.
func (r FrameworkRecord) MergeDetection(incoming FrameworkRecord) FrameworkRecord {
	merged := r.mergeFields(incoming)
	if r.DiscoveryDate != "" {
		merged.DiscoveryDate = r.DiscoveryDate
	}
	merged.NumberOfDetections = r.NumberOfDetections + 1
	return merged
}

// MergeUpdate returns the record stored after an explicit update.
// The counter never goes backwards: the larger of both values is kept.
func (r FrameworkRecord) MergeUpdate(incoming FrameworkRecord) FrameworkRecord {
	merged := r.mergeFields(incoming)
	merged.NumberOfDetections = max(r.NumberOfDetections, incoming.NumberOfDetections)
	return merged
}

func (r FrameworkRecord) mergeFields(incoming FrameworkRecord) FrameworkRecord {
	merged := r
	if incoming.DiscoveryDate != "" {
		merged.DiscoveryDate = incoming.DiscoveryDate
	}
	if incoming.Location != "" {
		merged.Location = incoming.Location
	}
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}
	if incoming.Type != "" {
		merged.Type = incoming.Type
	}
	if incoming.Category != "" {
		merged.Category = incoming.Category
	}
	if incoming.DetectionScore != 0 {
		merged.DetectionScore = incoming.DetectionScore
	}
	if incoming.PercentageOfDetection != 0 {
		merged.PercentageOfDetection = incoming.PercentageOfDetection
	}
	return merged
}

// FrameworkFilter narrows catalog listings.
type FrameworkFilter struct {
	// InternalType restricts results to one internal type when non-empty.
	InternalType string
}
