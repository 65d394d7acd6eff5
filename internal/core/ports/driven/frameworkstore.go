package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// MergeFunc computes the record to store from the stored record (nil when
// the identity is new) and the incoming one.
type MergeFunc func(stored *domain.FrameworkRecord, incoming domain.FrameworkRecord) (domain.FrameworkRecord, error)

// FrameworkStore persists framework records keyed by (name, internal type).
type FrameworkStore interface {
	// Get retrieves a record by identity. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error)

	// Upsert reads the stored record, applies merge and writes the result
	// atomically. Returns the stored record.
	Upsert(ctx context.Context, incoming domain.FrameworkRecord, merge MergeFunc) (*domain.FrameworkRecord, error)

	// FindByName returns every record with the exact name, ordered by internal type.
	FindByName(ctx context.Context, name string) ([]domain.FrameworkRecord, error)

	// FindNameContains returns records whose name contains substr,
	// ordered by (name, internal type), at most limit entries.
	FindNameContains(ctx context.Context, substr string, limit int) ([]domain.FrameworkRecord, error)

	// List returns records ordered by (name, internal type), skipping offset
	// entries and returning at most limit.
	List(ctx context.Context, filter domain.FrameworkFilter, offset, limit int) ([]domain.FrameworkRecord, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter domain.FrameworkFilter) (int64, error)
}
