package services

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(20000, 20100)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 20100)
}

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	_, err = FindAvailablePort(busy, busy)

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("no available port in range %d-%d", busy, busy))
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	for _, r := range [][2]int{{0, 10}, {9000, 8000}, {65000, 70000}} {
		_, err := FindAvailablePort(r[0], r[1])
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}
