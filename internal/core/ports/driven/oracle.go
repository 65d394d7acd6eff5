package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// OracleClient talks to the remote shared framework catalog.
// Failures are returned as *domain.RemoteError. Implementations never retry.
type OracleClient interface {
	// Ping checks that the oracle is reachable.
	Ping(ctx context.Context) error

	// LastUpdate returns the remote catalog's last modification time.
	LastUpdate(ctx context.Context) (time.Time, error)

	// Pull returns the records changed since the given time.
	Pull(ctx context.Context, since time.Time) ([]domain.FrameworkRecord, error)

	// Forecast returns how many records changed since the given time.
	Forecast(ctx context.Context, since time.Time) (int64, error)

	// Find looks up a single record. Returns nil, nil on a miss.
	Find(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error)
}
