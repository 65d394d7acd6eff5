package driving

import "github.com/custodia-labs/artemis/internal/core/domain"

// SettingsService reads and writes application settings.
type SettingsService interface {
	// Get returns the validated settings.
	Get() (*domain.Settings, error)

	// Set parses and stores one setting by key.
	Set(key, raw string) error

	// Keys returns every known setting key, sorted.
	Keys() []string

	// IsSecret reports whether a setting holds a credential.
	IsSecret(key string) bool
}
