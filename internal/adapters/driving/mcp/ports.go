package mcp

import (
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Detection runs detections and trains models.
	Detection driving.DetectionService

	// Frameworks manages the framework catalog.
	Frameworks driving.FrameworkService

	// Oracle synchronises with the remote oracle. Optional.
	Oracle driving.OracleService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Detection == nil {
		return ErrMissingDetectionService
	}
	if p.Frameworks == nil {
		return ErrMissingFrameworkService
	}
	return nil
}
