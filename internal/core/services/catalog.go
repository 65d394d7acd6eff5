package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
)

// Ensure FrameworkCatalog implements the interface.
var _ driving.FrameworkService = (*FrameworkCatalog)(nil)

// defaultContainsLimit caps name searches without an explicit limit.
const defaultContainsLimit = 50

// FrameworkCatalog is the persistent framework catalog.
//
// Writes for one (name, internal type) identity are serialised. When
// persistence is disabled every write computes the record it would have
// stored and returns it without writing.
type FrameworkCatalog struct {
	store    driven.FrameworkStore
	selector *CandidateSelector
	persist  bool
	locks    *keyedMutex
	now      func() time.Time
}

// NewFrameworkCatalog creates a catalog. selector is only needed by CountCandidates.
func NewFrameworkCatalog(store driven.FrameworkStore, selector *CandidateSelector, persist bool) *FrameworkCatalog {
	return &FrameworkCatalog{
		store:    store,
		selector: selector,
		persist:  persist,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// Persistent reports whether writes reach the store.
func (c *FrameworkCatalog) Persistent() bool {
	return c.persist
}

// Upsert inserts a new identity or merges into the stored record.
// Every upsert of an existing identity counts one more detection.
func (c *FrameworkCatalog) Upsert(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	return c.write(ctx, record, func(stored *domain.FrameworkRecord, incoming domain.FrameworkRecord) (domain.FrameworkRecord, error) {
		if stored == nil {
			if incoming.NumberOfDetections < 1 {
				incoming.NumberOfDetections = 1
			}
			return incoming, nil
		}
		return stored.MergeDetection(incoming), nil
	})
}

// Add stores a record, merging it into an existing identity.
func (c *FrameworkCatalog) Add(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	return c.Upsert(ctx, record)
}

// Update changes an existing record. The detection counter never decreases.
func (c *FrameworkCatalog) Update(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	return c.write(ctx, record, func(stored *domain.FrameworkRecord, incoming domain.FrameworkRecord) (domain.FrameworkRecord, error) {
		if stored == nil {
			return domain.FrameworkRecord{}, fmt.Errorf("framework %q (%s): %w", incoming.Name, incoming.InternalType, domain.ErrNotFound)
		}
		return stored.MergeUpdate(incoming), nil
	})
}

// Adopt stores a record received from the oracle as given.
func (c *FrameworkCatalog) Adopt(ctx context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	return c.write(ctx, record, func(stored *domain.FrameworkRecord, incoming domain.FrameworkRecord) (domain.FrameworkRecord, error) {
		if stored != nil {
			incoming.CreatedAt = stored.CreatedAt
		}
		return incoming, nil
	})
}

func (c *FrameworkCatalog) write(ctx context.Context, record domain.FrameworkRecord, merge driven.MergeFunc) (*domain.FrameworkRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if c.store == nil {
		return nil, fmt.Errorf("%w: framework store not configured", domain.ErrConfigurationMissing)
	}

	unlock := c.locks.Lock(record.Key())
	defer unlock()

	now := c.now()
	stamped := func(stored *domain.FrameworkRecord, incoming domain.FrameworkRecord) (domain.FrameworkRecord, error) {
		merged, err := merge(stored, incoming)
		if err != nil {
			return merged, err
		}
		if stored == nil {
			merged.CreatedAt = now
		}
		merged.UpdatedAt = now
		return merged, nil
	}

	if !c.persist {
		return c.dryRun(ctx, record, stamped)
	}

	saved, err := c.store.Upsert(ctx, record, stamped)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s (%s): %w", domain.ErrCatalogWrite, record.Name, record.InternalType, err)
	}
	return saved, nil
}

func (c *FrameworkCatalog) dryRun(ctx context.Context, record domain.FrameworkRecord, merge driven.MergeFunc) (*domain.FrameworkRecord, error) {
	stored, err := c.store.Get(ctx, record.Name, record.InternalType)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("read framework: %w", err)
	}
	merged, err := merge(stored, record)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// FindByName returns the first record with the name, or nil.
func (c *FrameworkCatalog) FindByName(ctx context.Context, name string) (*domain.FrameworkRecord, error) {
	records, err := c.store.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find framework: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// FindByNameAndType returns the record with the identity, or nil.
func (c *FrameworkCatalog) FindByNameAndType(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	record, err := c.store.Get(ctx, name, internalType)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find framework: %w", err)
	}
	return record, nil
}

// FindNameContains returns at most limit records whose name contains substr.
// A limit of zero or less uses the default limit.
func (c *FrameworkCatalog) FindNameContains(ctx context.Context, substr string, limit int) ([]domain.FrameworkRecord, error) {
	if limit <= 0 {
		limit = defaultContainsLimit
	}
	records, err := c.store.FindNameContains(ctx, substr, limit)
	if err != nil {
		return nil, fmt.Errorf("search frameworks: %w", err)
	}
	return records, nil
}

// GetBatch returns the records in positions [start, end) of the
// (name, internal type) order.
func (c *FrameworkCatalog) GetBatch(ctx context.Context, start, end int, internalType string) ([]domain.FrameworkRecord, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: invalid batch [%d, %d)", domain.ErrInvalidInput, start, end)
	}
	if start == end {
		return []domain.FrameworkRecord{}, nil
	}
	records, err := c.store.List(ctx, domain.FrameworkFilter{InternalType: internalType}, start, end-start)
	if err != nil {
		return nil, fmt.Errorf("list frameworks: %w", err)
	}
	return records, nil
}

// Count returns the number of records, optionally for one internal type.
func (c *FrameworkCatalog) Count(ctx context.Context, internalType string) (int64, error) {
	n, err := c.store.Count(ctx, domain.FrameworkFilter{InternalType: internalType})
	if err != nil {
		return 0, fmt.Errorf("count frameworks: %w", err)
	}
	return n, nil
}

// CountCandidates returns the number of candidates of an application.
func (c *FrameworkCatalog) CountCandidates(ctx context.Context, application, language string) (int64, error) {
	profile, err := domain.LookupLanguage(language)
	if err != nil {
		return 0, err
	}
	if c.selector == nil {
		return 0, fmt.Errorf("%w: graph store not configured", domain.ErrConfigurationMissing)
	}
	return c.selector.Count(ctx, application, profile)
}
