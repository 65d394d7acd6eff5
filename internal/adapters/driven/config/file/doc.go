// Package file provides file-based configuration for artemis.
//
// ConfigStore reads and writes a TOML file with dot-notation keys. Values
// can be overridden by ARTEMIS_<KEY> environment variables, which may be
// loaded from .env files with LoadEnvFiles.
package file
