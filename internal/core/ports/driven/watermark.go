package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// WatermarkStore persists how far each remote catalog has been pulled.
type WatermarkStore interface {
	// Save replaces the watermark of w.Remote.
	Save(ctx context.Context, w domain.Watermark) error

	// Get returns the watermark of a remote, or domain.ErrNotFound before
	// the first completed pull.
	Get(ctx context.Context, remote string) (*domain.Watermark, error)

	// Delete forgets a remote so the next pull starts from scratch.
	Delete(ctx context.Context, remote string) error
}
