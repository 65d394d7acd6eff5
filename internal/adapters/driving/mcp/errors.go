// Package mcp provides an MCP (Model Context Protocol) server adapter for Artemis.
// It lets AI assistants launch detections and query the framework catalog.
package mcp

import "errors"

// ErrMissingDetectionService is returned when the detection service is not provided.
var ErrMissingDetectionService = errors.New("mcp: detection service is required")

// ErrMissingFrameworkService is returned when the framework service is not provided.
var ErrMissingFrameworkService = errors.New("mcp: framework service is required")
