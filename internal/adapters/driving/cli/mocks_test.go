package cli

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
	force    bool
}

func (m *mockDetectionService) LaunchDetection(
	_ context.Context, application, language string,
) (*domain.DetectionRun, error) {
	if m.run != nil {
		m.run.Application = application
		m.run.Language = language
	}
	return m.run, m.err
}

func (m *mockDetectionService) TrainModel(_ context.Context, _ string, force bool) (time.Duration, error) {
	m.force = force
	return m.elapsed, m.trainErr
}

func (m *mockDetectionService) WatchCorpus(_ context.Context, onTrained func(string, time.Duration, error)) error {
	onTrained("java", m.elapsed, nil)
	return nil
}

// mockFrameworkService implements driving.FrameworkService for testing.
type mockFrameworkService struct {
	records    []domain.FrameworkRecord
	candidates int64
	err        error
	added      []domain.FrameworkRecord
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
		if r.Name == record.Name {
			return &record, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockFrameworkService) FindByName(_ context.Context, name string) (*domain.FrameworkRecord, error) {
	for i := range m.records {
		if m.records[i].Name == name {
			return &m.records[i], m.err
		}
	}
	return nil, m.err
}

func (m *mockFrameworkService) FindByNameAndType(
	_ context.Context, name, internalType string,
) (*domain.FrameworkRecord, error) {
	for i := range m.records {
		if m.records[i].Name == name && m.records[i].InternalType == internalType {
			return &m.records[i], m.err
		}
	}
	return nil, m.err
}

func (m *mockFrameworkService) FindNameContains(
	_ context.Context, substr string, _ int,
) ([]domain.FrameworkRecord, error) {
	var out []domain.FrameworkRecord
	for _, r := range m.records {
		if strings.Contains(r.Name, substr) {
			out = append(out, r)
		}
	}
	return out, m.err
}

func (m *mockFrameworkService) GetBatch(_ context.Context, start, end int, _ string) ([]domain.FrameworkRecord, error) {
	if start > end {
		return nil, domain.ErrInvalidInput
	}
	if end > len(m.records) {
		end = len(m.records)
	}
	if start >= end {
		return nil, m.err
	}
	return m.records[start:end], m.err
}

func (m *mockFrameworkService) Count(context.Context, string) (int64, error) {
	return int64(len(m.records)), m.err
}

func (m *mockFrameworkService) CountCandidates(context.Context, string, string) (int64, error) {
	return m.candidates, m.err
}

// mockOracleService implements driving.OracleService for testing.
type mockOracleService struct {
	reachable  bool
	lastUpdate time.Time
	records    []domain.FrameworkRecord
	pending    int64
	err        error
}

func (m *mockOracleService) Enabled() bool { return true }

func (m *mockOracleService) Ping(context.Context) bool { return m.reachable }

func (m *mockOracleService) LastUpdate(context.Context) (time.Time, error) {
	return m.lastUpdate, m.err
}

func (m *mockOracleService) Pull(context.Context, time.Time) ([]domain.FrameworkRecord, error) {
	return m.records, m.err
}

func (m *mockOracleService) Sync(context.Context) (*domain.OracleSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.OracleSnapshot{LastUpdate: m.lastUpdate, Pulled: m.records, PendingCount: m.pending}, nil
}

func (m *mockOracleService) ForecastPendingCount(context.Context) (int64, error) {
	return m.pending, m.err
}

func (m *mockOracleService) FindRemote(_ context.Context, name, _ string) (*domain.FrameworkRecord, error) {
	for i := range m.records {
		if m.records[i].Name == name {
			return &m.records[i], m.err
		}
	}
	return nil, m.err
}

func (m *mockOracleService) Status(context.Context) (*driving.OracleStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.OracleStatus{
		Enabled:    true,
		Reachable:  m.reachable,
		LastUpdate: m.lastUpdate,
		Pending:    m.pending,
	}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings *domain.Settings
	values   map[string]string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultSettings("/home/test/.artemis")
	return &mockSettingsService{settings: &s, values: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(key, raw string) error {
	if key == "unknown.key" {
		return domain.ErrInvalidInput
	}
	m.values[key] = raw
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"graph.password", "graph.uri"}
}

func (m *mockSettingsService) IsSecret(key string) bool {
	return strings.HasSuffix(key, "password")
}

// Ensure mocks implement interfaces
var (
	_ driving.DetectionService = (*mockDetectionService)(nil)
	_ driving.FrameworkService = (*mockFrameworkService)(nil)
	_ driving.OracleService    = (*mockOracleService)(nil)
	_ driving.SettingsService  = (*mockSettingsService)(nil)
)

// setupTestServices swaps the package services and returns a restore func.
func setupTestServices(s Services) func() {
	old := Services{
		Detection:  detectionService,
		Frameworks: frameworkService,
		Oracle:     oracleService,
		Settings:   settingsService,
		Metrics:    metricsHandler,
		Scheduler:  scheduler,
		ConfigErr:  configErr,
	}
	SetServices(s)
	return func() {
		SetServices(old)
	}
}
