package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

var _ driven.WatermarkStore = (*WatermarkStore)(nil)

// WatermarkStore keeps oracle watermarks in memory.
type WatermarkStore struct {
	mu    sync.RWMutex
	marks map[string]domain.Watermark
}

// NewWatermarkStore creates an empty in-memory watermark store.
func NewWatermarkStore() *WatermarkStore {
	return &WatermarkStore{marks: make(map[string]domain.Watermark)}
}

// Save replaces the watermark of w.Remote.
func (s *WatermarkStore) Save(_ context.Context, w domain.Watermark) error {
	if w.Remote == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[w.Remote] = w
	return nil
}

// Get returns the watermark of a remote, or domain.ErrNotFound.
func (s *WatermarkStore) Get(_ context.Context, remote string) (*domain.Watermark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.marks[remote]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// Delete forgets a remote.
func (s *WatermarkStore) Delete(_ context.Context, remote string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.marks, remote)
	return nil
}
