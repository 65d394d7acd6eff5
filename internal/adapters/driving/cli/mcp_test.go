package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
}

func TestServeCmd_PortFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestServeCmd_Long(t *testing.T) {
	assert.Contains(t, serveCmd.Long, "/metrics")
	assert.Contains(t, serveCmd.Long, "oracle.sync_interval_minutes")
}

func TestServeCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices(Services{Frameworks: &mockFrameworkService{}})
	defer cleanup()

	_, err := executeCommand("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "detection services not configured")
}

func TestServeCmd_ReportsConfigurationError(t *testing.T) {
	cleanup := setupTestServices(Services{ConfigErr: fmt.Errorf("%w: graph.uri", domain.ErrConfigurationMissing)})
	defer cleanup()

	_, err := executeCommand("serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.Contains(t, err.Error(), "detection services not configured")
}
