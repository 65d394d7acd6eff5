package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure FrameworkStore implements the interface.
var _ driven.FrameworkStore = (*FrameworkStore)(nil)

// FrameworkStore is an in-memory framework catalog.
type FrameworkStore struct {
	mu      sync.RWMutex
	records map[string]domain.FrameworkRecord
}

// NewFrameworkStore creates an empty in-memory framework store.
func NewFrameworkStore() *FrameworkStore {
	return &FrameworkStore{records: make(map[string]domain.FrameworkRecord)}
}

// Get retrieves a record by identity.
func (s *FrameworkStore) Get(_ context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[domain.IdentityKey(name, internalType)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// Upsert applies merge under the store lock.
func (s *FrameworkStore) Upsert(
	_ context.Context,
	incoming domain.FrameworkRecord,
	merge driven.MergeFunc,
) (*domain.FrameworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := incoming.Key()
	var stored *domain.FrameworkRecord
	if r, ok := s.records[key]; ok {
		stored = &r
	}

	merged, err := merge(stored, incoming)
	if err != nil {
		return nil, err
	}
	merged.Name, merged.InternalType = incoming.Name, incoming.InternalType
	s.records[key] = merged
	return &merged, nil
}

// FindByName returns records with the exact name, ordered by internal type.
func (s *FrameworkStore) FindByName(_ context.Context, name string) ([]domain.FrameworkRecord, error) {
	return s.sorted(func(r domain.FrameworkRecord) bool { return r.Name == name }), nil
}

// FindNameContains returns at most limit records whose name contains substr.
func (s *FrameworkStore) FindNameContains(_ context.Context, substr string, limit int) ([]domain.FrameworkRecord, error) {
	matches := s.sorted(func(r domain.FrameworkRecord) bool { return strings.Contains(r.Name, substr) })
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// List returns a page of records in (name, internal type) order.
func (s *FrameworkStore) List(
	_ context.Context,
	filter domain.FrameworkFilter,
	offset, limit int,
) ([]domain.FrameworkRecord, error) {
	matches := s.sorted(filterFunc(filter))
	if offset >= len(matches) {
		return []domain.FrameworkRecord{}, nil
	}
	matches = matches[offset:]
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Count returns the number of records matching the filter.
func (s *FrameworkStore) Count(_ context.Context, filter domain.FrameworkFilter) (int64, error) {
	match := filterFunc(filter)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.records {
		if match(r) {
			n++
		}
	}
	return n, nil
}

func (s *FrameworkStore) sorted(match func(domain.FrameworkRecord) bool) []domain.FrameworkRecord {
	s.mu.RLock()
	out := make([]domain.FrameworkRecord, 0, len(s.records))
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].InternalType < out[j].InternalType
	})
	return out
}

func filterFunc(filter domain.FrameworkFilter) func(domain.FrameworkRecord) bool {
	return func(r domain.FrameworkRecord) bool {
		return filter.InternalType == "" || r.InternalType == filter.InternalType
	}
}
