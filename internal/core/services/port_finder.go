package services

import (
	"fmt"
	"net"
	"strconv"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// FindAvailablePort returns the first loopback port in [startPort, endPort]
// that accepts a listener.
func FindAvailablePort(startPort, endPort int) (int, error) {
	if startPort <= 0 || endPort > 65535 || startPort > endPort {
		return 0, fmt.Errorf("%w: port range %d-%d", domain.ErrInvalidInput, startPort, endPort)
	}
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = listener.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
