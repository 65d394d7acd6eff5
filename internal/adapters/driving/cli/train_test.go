package cli

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func TestTrainCmd_Use(t *testing.T) {
	assert.Equal(t, "train", trainCmd.Use)
}

func TestTrainCmd_Flags(t *testing.T) {
	for _, name := range []string{"language", "force", "watch"} {
		assert.NotNil(t, trainCmd.Flags().Lookup(name), name)
	}
}

func TestTrainCmd_PrintsElapsed(t *testing.T) {
	detection := &mockDetectionService{elapsed: 842 * time.Millisecond}
	cleanup := setupTestServices(Services{Detection: detection})
	defer cleanup()

	out, err := executeCommand("train", "--language", "java", "--force=true", "--watch=false")

	require.NoError(t, err)
	assert.True(t, detection.force)
	assert.Contains(t, out, "Model was trained in '842' milliseconds.")
	assert.NotContains(t, out, "Watching corpus")
}

func TestTrainCmd_Watch(t *testing.T) {
	detection := &mockDetectionService{elapsed: 10 * time.Millisecond}
	cleanup := setupTestServices(Services{Detection: detection})
	defer cleanup()

	out, err := executeCommand("train", "--language", "java", "--force=false", "--watch=true")

	require.NoError(t, err)
	assert.False(t, detection.force)
	assert.Contains(t, out, "Watching corpus for changes.")
	assert.Contains(t, out, "[java] Model was trained in '10' milliseconds.")
}

func TestTrainCmd_Error(t *testing.T) {
	cleanup := setupTestServices(Services{Detection: &mockDetectionService{trainErr: domain.ErrUnsupportedLanguage}})
	defer cleanup()

	_, err := executeCommand("train", "--language", "fortran", "--watch=false")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
	assert.Contains(t, err.Error(), "training failed")
}

func TestTrainCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices(Services{})
	defer cleanup()

	_, err := executeCommand("train", "--language", "java")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "detection service not configured")
}

func TestTrainCmd_ReportsConfigurationError(t *testing.T) {
	cleanup := setupTestServices(Services{ConfigErr: fmt.Errorf("%w: classifier.corpus_dir", domain.ErrConfigurationMissing)})
	defer cleanup()

	_, err := executeCommand("train", "--language", "java")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.Contains(t, err.Error(), "classifier.corpus_dir")
}
