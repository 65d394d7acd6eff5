package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
)

// mockDetectionService implements driving.DetectionService for testing.
type mockDetectionService struct {
	run      *domain.DetectionRun
	err      error
	elapsed  time.Duration
	trainErr error

	lastApplication string
	lastLanguage    string
	lastForce       bool
}

func (m *mockDetectionService) LaunchDetection(
	_ context.Context, application, language string,
) (*domain.DetectionRun, error) {
	m.lastApplication = application
	m.lastLanguage = language
	return m.run, m.err
}

func (m *mockDetectionService) TrainModel(_ context.Context, language string, force bool) (time.Duration, error) {
	m.lastLanguage = language
	m.lastForce = force
	return m.elapsed, m.trainErr
}

func (m *mockDetectionService) WatchCorpus(
	ctx context.Context, _ func(string, time.Duration, error),
) error {
	<-ctx.Done()
	return nil
}

// mockFrameworkService implements driving.FrameworkService for testing.
type mockFrameworkService struct {
	records    []domain.FrameworkRecord
	err        error
	candidates int64
	added      []domain.FrameworkRecord
	updated    []domain.FrameworkRecord
}

func (m *mockFrameworkService) Add(_ context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = append(m.added, record)
	record.NumberOfDetections++
	return &record, nil
}

func (m *mockFrameworkService) Update(_ context.Context, record domain.FrameworkRecord) (*domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.records {
		if r.Key() == record.Key() {
			m.updated = append(m.updated, record)
			return &record, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockFrameworkService) FindByName(_ context.Context, name string) (*domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].Name == name {
			return &m.records[i], nil
		}
	}
	return nil, nil
}

func (m *mockFrameworkService) FindByNameAndType(
	_ context.Context, name, internalType string,
) (*domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].Name == name && m.records[i].InternalType == internalType {
			return &m.records[i], nil
		}
	}
	return nil, nil
}

func (m *mockFrameworkService) FindNameContains(
	_ context.Context, substr string, limit int,
) ([]domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FrameworkRecord
	for _, r := range m.records {
		if strings.Contains(r.Name, substr) {
			out = append(out, r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockFrameworkService) GetBatch(
	_ context.Context, start, end int, _ string,
) ([]domain.FrameworkRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if end > len(m.records) {
		end = len(m.records)
	}
	if start >= end {
		return nil, nil
	}
	return m.records[start:end], nil
}

func (m *mockFrameworkService) Count(_ context.Context, internalType string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, r := range m.records {
		if internalType == "" || r.InternalType == internalType {
			n++
		}
	}
	return n, nil
}

func (m *mockFrameworkService) CountCandidates(context.Context, string, string) (int64, error) {
	return m.candidates, m.err
}

// mockOracleService implements driving.OracleService for testing.
type mockOracleService struct {
	status   *driving.OracleStatus
	snapshot *domain.OracleSnapshot
	err      error
}

func (m *mockOracleService) Enabled() bool { return true }

func (m *mockOracleService) Ping(context.Context) bool { return m.err == nil }

func (m *mockOracleService) LastUpdate(context.Context) (time.Time, error) {
	return time.Time{}, m.err
}

func (m *mockOracleService) Pull(context.Context, time.Time) ([]domain.FrameworkRecord, error) {
	return nil, m.err
}

func (m *mockOracleService) Sync(context.Context) (*domain.OracleSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockOracleService) ForecastPendingCount(context.Context) (int64, error) {
	return 0, m.err
}

func (m *mockOracleService) FindRemote(context.Context, string, string) (*domain.FrameworkRecord, error) {
	return nil, m.err
}

func (m *mockOracleService) Status(context.Context) (*driving.OracleStatus, error) {
	return m.status, m.err
}

// Ensure mocks implement interfaces
var (
	_ driving.DetectionService = (*mockDetectionService)(nil)
	_ driving.FrameworkService = (*mockFrameworkService)(nil)
	_ driving.OracleService    = (*mockOracleService)(nil)
)

func validPorts() *Ports {
	return &Ports{
		Detection:  &mockDetectionService{},
		Frameworks: &mockFrameworkService{},
	}
}
