// Package services implements the driving port interfaces.
// Services contain the detection logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on domain, the port interfaces and the logger.
package services
