package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("/home/u/.artemis")

	assert.True(t, s.PersistenceEnabled)
	assert.Equal(t, 0.80, s.Classifier.ConfidenceThreshold)
	assert.Equal(t, ModelStoreFile, s.Model.Store)
	assert.Equal(t, filepath.Join("/home/u/.artemis", "models"), s.Model.Dir)
	assert.Equal(t, filepath.Join("/home/u/.artemis", "data"), s.Storage.DataDir)
	assert.False(t, s.Oracle.Enabled)
	assert.Equal(t, 10*time.Second, s.Oracle.Timeout)
	assert.Equal(t, 1, s.Oracle.Retry.Attempts())
	assert.Equal(t, "Object", s.Graph.Schema.ObjectLabel)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"threshold above one", func(s *Settings) { s.Classifier.ConfidenceThreshold = 1.5 }, ErrInvalidInput},
		{"unknown store", func(s *Settings) { s.Model.Store = "ftp" }, ErrInvalidInput},
		{"s3 without bucket", func(s *Settings) {
			s.Model.Store = ModelStoreS3
			s.Model.S3.Endpoint = "localhost:9000"
		}, ErrConfigurationMissing},
		{"oracle without url", func(s *Settings) { s.Oracle.Enabled = true }, ErrConfigurationMissing},
		{"mail without recipients", func(s *Settings) {
			s.Mail.Enabled = true
			s.Mail.Host = "smtp.example.com"
			s.Mail.From = "artemis@example.com"
		}, ErrConfigurationMissing},
		{"bad label", func(s *Settings) { s.Graph.Schema.ObjectLabel = "Object`) DETACH DELETE n //" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(t.TempDir())
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), tt.wantErr)
		})
	}
}

func TestSettings_RequireGraph(t *testing.T) {
	s := DefaultSettings(t.TempDir())
	assert.ErrorIs(t, s.RequireGraph(), ErrConfigurationMissing)

	s.Graph.URI = "neo4j://localhost:7687"
	assert.NoError(t, s.RequireGraph())
}

func TestRetryPolicy_Attempts(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.Attempts())
	assert.Equal(t, 3, RetryPolicy{MaxAttempts: 3}.Attempts())
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("InternalType"))
	assert.True(t, IsIdentifier("_x1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1abc"))
	assert.False(t, IsIdentifier("a b"))
}
