package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// OracleService synchronises the local catalog with the remote oracle.
type OracleService interface {
	// Enabled reports whether the oracle is configured.
	Enabled() bool

	// Ping returns true when the oracle answers. Never returns an error.
	Ping(ctx context.Context) bool

	// LastUpdate returns the remote catalog's last modification time.
	LastUpdate(ctx context.Context) (time.Time, error)

	// Pull returns the remote records changed since the given time.
	Pull(ctx context.Context, since time.Time) ([]domain.FrameworkRecord, error)

	// Sync pulls the delta since the stored watermark into the catalog.
	Sync(ctx context.Context) (*domain.OracleSnapshot, error)

	// ForecastPendingCount returns how many remote changes are not yet pulled.
	ForecastPendingCount(ctx context.Context) (int64, error)

	// FindRemote looks up one record on the oracle. Returns nil on a miss.
	FindRemote(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error)

	// Status summarises the oracle connection.
	Status(ctx context.Context) (*OracleStatus, error)
}

// OracleStatus summarises the oracle connection.
type OracleStatus struct {
	// Enabled indicates the oracle is configured.
	Enabled bool

	// Reachable indicates the oracle answered a ping.
	Reachable bool

	// LastUpdate is the remote catalog's last modification time.
	LastUpdate time.Time

	// Watermark is the time of the last fully consumed sync.
	Watermark time.Time

	// Pending is the number of remote changes not yet pulled.
	Pending int64
}
