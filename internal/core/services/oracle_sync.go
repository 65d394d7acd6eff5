package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
	"github.com/custodia-labs/artemis/internal/logger"
)

// Ensure OracleSync implements the interface.
var _ driving.OracleService = (*OracleSync)(nil)

// OracleSync keeps the local catalog in step with the remote oracle.
// A nil client means the oracle is disabled.
type OracleSync struct {
	client     driven.OracleClient
	watermarks driven.WatermarkStore
	catalog    *FrameworkCatalog
	metrics    driven.MetricsRecorder
}

// NewOracleSync creates the oracle service. client and metrics may be nil.
func NewOracleSync(
	client driven.OracleClient,
	watermarks driven.WatermarkStore,
	catalog *FrameworkCatalog,
	metrics driven.MetricsRecorder,
) *OracleSync {
	return &OracleSync{
		client:     client,
		watermarks: watermarks,
		catalog:    catalog,
		metrics:    metrics,
	}
}

// Enabled reports whether the oracle is configured.
func (s *OracleSync) Enabled() bool {
	return s.client != nil
}

// Ping returns true when the oracle answers.
func (s *OracleSync) Ping(ctx context.Context) bool {
	if !s.Enabled() {
		return false
	}
	err := s.client.Ping(ctx)
	s.observe("ping", err)
	if err != nil {
		logger.Debug("oracle ping: %v", err)
		return false
	}
	return true
}

// LastUpdate returns the remote catalog's last modification time.
func (s *OracleSync) LastUpdate(ctx context.Context) (time.Time, error) {
	if !s.Enabled() {
		return time.Time{}, domain.ErrOracleDisabled
	}
	t, err := s.client.LastUpdate(ctx)
	s.observe("last-update", err)
	return t, err
}

// Pull returns the remote records changed since the given time.
func (s *OracleSync) Pull(ctx context.Context, since time.Time) ([]domain.FrameworkRecord, error) {
	if !s.Enabled() {
		return nil, domain.ErrOracleDisabled
	}
	records, err := s.client.Pull(ctx, since)
	s.observe("pull", err)
	return records, err
}

// Sync pulls every change since the stored watermark into the catalog.
// The watermark only moves once all pulled records are stored.
func (s *OracleSync) Sync(ctx context.Context) (*domain.OracleSnapshot, error) {
	if !s.Enabled() {
		return nil, domain.ErrOracleDisabled
	}

	since, err := s.Watermark(ctx)
	if err != nil {
		return nil, err
	}

	lastUpdate, err := s.LastUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("oracle sync: %w", err)
	}

	records, err := s.Pull(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("oracle sync: %w", err)
	}

	for _, r := range records {
		if _, err := s.catalog.Adopt(ctx, r); err != nil {
			return nil, fmt.Errorf("oracle sync: store %q: %w", r.Name, err)
		}
	}

	if s.catalog.Persistent() && s.watermarks != nil {
		w := domain.Watermark{
			Remote:     domain.OracleRemote,
			LastUpdate: lastUpdate,
			SyncedAt:   time.Now().UTC(),
			Records:    len(records),
		}
		if err := s.watermarks.Save(ctx, w); err != nil {
			return nil, fmt.Errorf("save oracle watermark: %w", err)
		}
	}

	snapshot := &domain.OracleSnapshot{LastUpdate: lastUpdate, Pulled: records}
	pending, err := s.client.Forecast(ctx, lastUpdate)
	s.observe("forecast", err)
	if err != nil {
		logger.Warn("oracle forecast after sync: %v", err)
	} else {
		snapshot.PendingCount = pending
	}

	logger.Info("oracle sync pulled %d records, watermark %s", len(records), lastUpdate.Format(time.RFC3339))
	return snapshot, nil
}

// ForecastPendingCount returns how many remote changes are newer than the watermark.
func (s *OracleSync) ForecastPendingCount(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, domain.ErrOracleDisabled
	}
	since, err := s.Watermark(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.client.Forecast(ctx, since)
	s.observe("forecast", err)
	return n, err
}

// FindRemote looks up one record on the oracle. Returns nil on a miss.
func (s *OracleSync) FindRemote(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	if !s.Enabled() {
		return nil, domain.ErrOracleDisabled
	}
	record, err := s.client.Find(ctx, name, internalType)
	s.observe("find", err)
	return record, err
}

// Watermark returns the time of the last fully consumed sync.
func (s *OracleSync) Watermark(ctx context.Context) (time.Time, error) {
	if s.watermarks == nil {
		return time.Time{}, nil
	}
	w, err := s.watermarks.Get(ctx, domain.OracleRemote)
	if errors.Is(err, domain.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get oracle watermark: %w", err)
	}
	return w.Since(), nil
}

// Status summarises the oracle connection.
func (s *OracleSync) Status(ctx context.Context) (*driving.OracleStatus, error) {
	status := &driving.OracleStatus{Enabled: s.Enabled()}
	watermark, err := s.Watermark(ctx)
	if err != nil {
		return nil, err
	}
	status.Watermark = watermark
	if !status.Enabled {
		return status, nil
	}

	status.Reachable = s.Ping(ctx)
	if !status.Reachable {
		return status, nil
	}
	if status.LastUpdate, err = s.LastUpdate(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = s.ForecastPendingCount(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *OracleSync) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveOracleCall(op, err)
	}
}
