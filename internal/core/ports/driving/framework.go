package driving

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// FrameworkService manages the framework catalog.
type FrameworkService interface {
	// Add stores a record, merging it into an existing identity.
	Add(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error)

	// Update changes an existing record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error)

	// FindByName returns the first record with the name, or nil.
	FindByName(ctx context.Context, name string) (*domain.FrameworkRecord, error)

	// FindByNameAndType returns the record with the identity, or nil.
	FindByNameAndType(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error)

	// FindNameContains returns at most limit records whose name contains substr.
	FindNameContains(ctx context.Context, substr string, limit int) ([]domain.FrameworkRecord, error)

	// GetBatch returns the records in positions [start, end) of the
	// (name, internal type) order, optionally restricted to an internal type.
	GetBatch(ctx context.Context, start, end int, internalType string) ([]domain.FrameworkRecord, error)

	// Count returns the number of records, optionally for one internal type.
	Count(ctx context.Context, internalType string) (int64, error)

	// CountCandidates returns the number of candidates of an application.
	CountCandidates(ctx context.Context, application, language string) (int64, error)
}
