package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func sampleGraph() *Graph {
	return New(
		domain.CandidateObject{ID: "1", Name: "Spring", Type: "Java Class", Application: "Shop", External: true},
		domain.CandidateObject{ID: "2", Name: "Cart", Type: "Java Class", Application: "Shop", External: false},
		domain.CandidateObject{ID: "3", Name: "Lodash", Type: "JavaScript Module", Application: "Shop", External: true},
		domain.CandidateObject{ID: "4", Name: "Spring", Type: "Java Class", Application: "Bank", External: true},
		domain.CandidateObject{ID: "5", Name: "PAYROLL", InternalType: "CAST_COBOL_SavedProgram", Application: "Bank", External: true},
	)
}

func TestFindCandidates_TypeContainsIsCaseSensitive(t *testing.T) {
	g := sampleGraph()

	got, err := g.FindCandidates(context.Background(), domain.CandidateQuery{Application: "Shop", TypeContains: "Java"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	none, err := g.FindCandidates(context.Background(), domain.CandidateQuery{Application: "Shop", TypeContains: "java"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindCandidates_InternalType(t *testing.T) {
	g := sampleGraph()

	got, err := g.FindCandidates(context.Background(), domain.CandidateQuery{Application: "Bank", InternalType: "CAST_COBOL_SavedProgram"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PAYROLL", got[0].Name)

	n, err := g.CountCandidates(context.Background(), domain.CandidateQuery{Application: "Bank", TypeContains: "Java"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFindCandidates_InvalidQuery(t *testing.T) {
	_, err := sampleGraph().FindCandidates(context.Background(), domain.CandidateQuery{Application: "Shop"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"objects": [
		{"id": "a", "name": "log4j", "fullName": "org.apache.log4j", "type": "Java Package", "application": "Shop", "external": true}
	]}`), 0600))

	g, err := Load(path)
	require.NoError(t, err)

	got, err := g.FindCandidates(context.Background(), domain.CandidateQuery{Application: "Shop", TypeContains: "Java"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "org.apache.log4j", got[0].FullName)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
	_, err = Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
