package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func sampleReport() *domain.RunReport {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		RunID:       "run-1",
		Application: "Web Shop",
		Language:    "java",
		State:       domain.RunDone,
		StartedAt:   start,
		FinishedAt:  start.Add(time.Minute),
		Candidates:  2,
		ByVerdict:   map[domain.FrameworkType]int{domain.FrameworkTypeFramework: 1, domain.FrameworkTypeToInvestigate: 1},
		BySource:    map[domain.VerdictSource]int{domain.SourceClassifier: 2},
		ByFailure:   map[domain.FailureKind]int{domain.FailureRemoteSync: 1},
		Frameworks:  []string{"org.springframework"},
		Entries: []domain.ReportEntry{
			{Name: "org.springframework", InternalType: "JV_PACKAGE", Verdict: domain.FrameworkTypeFramework, Score: 0.93, Source: domain.SourceClassifier, Persisted: true},
		},
		Failures: []domain.ReportFailure{
			{Kind: domain.FailureRemoteSync, Candidate: "org.springframework", Message: "oracle find: timeout"},
		},
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir)

	path, err := w.Write(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Web_Shop-run-1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "DONE", doc.State)
	assert.Equal(t, 1, doc.ByVerdict["FRAMEWORK"])
	assert.Equal(t, 1, doc.ByFailure["remote_sync"])
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "classifier", doc.Entries[0].Source)
	assert.Equal(t, []string{"org.springframework"}, doc.Frameworks)
}

func TestWriter_RejectsNil(t *testing.T) {
	_, err := NewWriter(t.TempDir()).Write(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
