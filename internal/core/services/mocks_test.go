package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockGraph implements driven.GraphStore over a fixed object list.
type mockGraph struct {
	mu       sync.Mutex
	objects  []domain.CandidateObject
	queries  []domain.CandidateQuery
	findErr  error
	countErr error
}

func (m *mockGraph) matches(q domain.CandidateQuery, o domain.CandidateObject) bool {
	if o.Application != q.Application {
		return false
	}
	if q.InternalType != "" {
		return o.InternalType == q.InternalType
	}
	return strings.Contains(o.Type, q.TypeContains)
}

func (m *mockGraph) FindCandidates(_ context.Context, q domain.CandidateQuery) ([]domain.CandidateObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.CandidateObject
	for _, o := range m.objects {
		if m.matches(q, o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockGraph) CountCandidates(_ context.Context, q domain.CandidateQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, o := range m.objects {
		if m.matches(q, o) && o.External {
			n++
		}
	}
	return n, nil
}

// mockModel returns the probability of FRAMEWORK for known texts.
type mockModel struct {
	fingerprint string
	framework   map[string]float64
	fallback    float64
}

func (m *mockModel) Predict(text string) []domain.CategoryProbability {
	p, ok := m.framework[text]
	if !ok {
		p = m.fallback
	}
	return []domain.CategoryProbability{
		{Category: domain.CategoryNotFramework, Probability: 1 - p},
		{Category: domain.CategoryFramework, Probability: p},
	}
}

func (m *mockModel) Fingerprint() string { return m.fingerprint }

func (m *mockModel) Marshal() ([]byte, error) { return []byte(m.fingerprint), nil }

// mockTrainer implements driven.ModelTrainer.
type mockTrainer struct {
	mu        sync.Mutex
	trained   int
	framework map[string]float64
	fallback  float64
	trainErr  error
	delay     time.Duration
}

func (m *mockTrainer) Train(_ context.Context, corpus domain.Corpus) (driven.Model, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trainErr != nil {
		return nil, m.trainErr
	}
	m.trained++
	return &mockModel{fingerprint: corpus.Fingerprint, framework: m.framework, fallback: m.fallback}, nil
}

func (m *mockTrainer) Unmarshal(data []byte) (driven.Model, error) {
	if len(data) == 0 {
		return nil, errors.New("empty artifact")
	}
	return &mockModel{fingerprint: string(data), framework: m.framework, fallback: m.fallback}, nil
}

func (m *mockTrainer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trained
}

// mockCorpus implements driven.CorpusSource.
type mockCorpus struct {
	fingerprint string
	samples     []domain.LabeledSample
	err         error
}

func newMockCorpus() *mockCorpus {
	return &mockCorpus{
		fingerprint: "fp-1",
		samples: []domain.LabeledSample{
			{Text: "org.springframework", Category: domain.CategoryFramework},
			{Text: "com.acme.billing", Category: domain.CategoryNotFramework},
		},
	}
}

func (m *mockCorpus) Corpus(_ context.Context, language string) (domain.Corpus, error) {
	if m.err != nil {
		return domain.Corpus{}, m.err
	}
	return domain.Corpus{Language: language, Samples: m.samples, Fingerprint: m.fingerprint}, nil
}

// mockModelStore implements driven.ModelStore.
type mockModelStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func newMockModelStore() *mockModelStore {
	return &mockModelStore{data: make(map[string][]byte)}
}

func (m *mockModelStore) Load(_ context.Context, language string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[language]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockModelStore) Save(_ context.Context, language string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[language] = data
	return nil
}

// mockOracle implements driven.OracleClient.
type mockOracle struct {
	mu         sync.Mutex
	pingErr    error
	lastUpdate time.Time
	records    []domain.FrameworkRecord
	known      map[string]domain.FrameworkRecord
	findErr    error
	findCalls  int
	pullSince  []time.Time
	pullErr    error
}

func (m *mockOracle) Ping(_ context.Context) error { return m.pingErr }

func (m *mockOracle) LastUpdate(_ context.Context) (time.Time, error) {
	return m.lastUpdate, nil
}

func (m *mockOracle) Pull(_ context.Context, since time.Time) ([]domain.FrameworkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pullSince = append(m.pullSince, since)
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return m.changedSince(since), nil
}

func (m *mockOracle) Forecast(_ context.Context, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.changedSince(since))), nil
}

// changedSince treats records as changed at their CreatedAt time.
func (m *mockOracle) changedSince(since time.Time) []domain.FrameworkRecord {
	var out []domain.FrameworkRecord
	for _, r := range m.records {
		if r.CreatedAt.After(since) {
			rec := r
			rec.CreatedAt = time.Time{}
			out = append(out, rec)
		}
	}
	return out
}

func (m *mockOracle) Find(_ context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	r, ok := m.known[domain.IdentityKey(name, internalType)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// mockMetrics implements driven.MetricsRecorder.
type mockMetrics struct {
	mu          sync.Mutex
	verdicts    map[domain.VerdictSource]int
	failures    map[domain.FailureKind]int
	runs        []domain.RunState
	trainings   int
	oracleCalls map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		verdicts:    make(map[domain.VerdictSource]int),
		failures:    make(map[domain.FailureKind]int),
		oracleCalls: make(map[string]int),
	}
}

func (m *mockMetrics) ObserveVerdict(_ string, _ domain.FrameworkType, source domain.VerdictSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts[source]++
}

func (m *mockMetrics) ObserveFailure(kind domain.FailureKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind]++
}

func (m *mockMetrics) ObserveRun(_ string, state domain.RunState, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, state)
}

func (m *mockMetrics) ObserveTraining(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainings++
}

func (m *mockMetrics) ObserveOracleCall(op string, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oracleCalls[op]++
}

// mockReportWriter implements driven.ReportWriter.
type mockReportWriter struct {
	reports []*domain.RunReport
	err     error
}

func (m *mockReportWriter) Write(_ context.Context, report *domain.RunReport) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.reports = append(m.reports, report)
	return "/reports/" + report.RunID + ".json", nil
}

// mockNotifier implements driven.Notifier.
type mockNotifier struct {
	sent []*domain.RunReport
	err  error
}

func (m *mockNotifier) Notify(_ context.Context, report *domain.RunReport) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, report)
	return nil
}

// failingFrameworkStore rejects upserts of selected names.
type failingFrameworkStore struct {
	driven.FrameworkStore
	reject map[string]bool
}

func (s *failingFrameworkStore) Upsert(
	ctx context.Context,
	incoming domain.FrameworkRecord,
	merge driven.MergeFunc,
) (*domain.FrameworkRecord, error) {
	if s.reject[incoming.Name] {
		return nil, errors.New("disk full")
	}
	return s.FrameworkStore.Upsert(ctx, incoming, merge)
}

// Ensure mocks implement interfaces
var (
	_ driven.GraphStore      = (*mockGraph)(nil)
	_ driven.ModelTrainer    = (*mockTrainer)(nil)
	_ driven.CorpusSource    = (*mockCorpus)(nil)
	_ driven.ModelStore      = (*mockModelStore)(nil)
	_ driven.OracleClient    = (*mockOracle)(nil)
	_ driven.MetricsRecorder = (*mockMetrics)(nil)
	_ driven.ReportWriter    = (*mockReportWriter)(nil)
	_ driven.Notifier        = (*mockNotifier)(nil)
)
