// Package driving defines what the CLI and the MCP server may ask of the
// core: run detections, train models, edit the framework catalog, talk to
// the oracle and change settings.
//
// Services in internal/core/services implement these interfaces.
package driving
