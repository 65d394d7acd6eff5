package driven

// ConfigStore reads and writes dot-notation settings such as
// "oracle.retry.max_attempts". Typed getters return the zero value for a
// missing key or a value of the wrong type; values from the environment
// arrive as strings and are converted.
type ConfigStore interface {
	// Get reports whether key is set and returns its raw value.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// GetStringSlice accepts a list or a comma-separated string.
	GetStringSlice(key string) []string

	// Set stores key and persists the configuration at once.
	Set(key string, value any) error

	// Path returns where the configuration is persisted.
	Path() string
}
