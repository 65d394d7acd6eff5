package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/artemis/internal/adapters/driven/config/convert"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// EnvPrefix prefixes the environment variables that override file values.
const EnvPrefix = "ARTEMIS_"

const fileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in config.toml, one TOML table per key prefix:
// "oracle.retry.max_attempts" is written as max_attempts under [oracle.retry].
// An ARTEMIS_* environment variable wins over the file and is never saved.
type ConfigStore struct {
	mu        sync.RWMutex
	filePath  string
	data      map[string]any
	lookupEnv func(string) (string, bool)
}

// NewConfigStore opens configDir/config.toml, creating configDir when
// needed. An empty configDir means ~/.artemis.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		configDir = filepath.Join(home, ".artemis")
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath:  filepath.Join(configDir, fileName),
		data:      make(map[string]any),
		lookupEnv: os.LookupEnv,
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// EnvName returns the environment variable overriding a key,
// e.g. oracle.retry.max_attempts -> ARTEMIS_ORACLE_RETRY_MAX_ATTEMPTS.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Get returns the environment override of key, else the file value.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.lookupEnv(EnvName(key)); ok {
		return v, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// FromEnv reports whether key is currently overridden by the environment.
func (s *ConfigStore) FromEnv(key string) bool {
	_, ok := s.lookupEnv(EnvName(key))
	return ok
}

func (s *ConfigStore) GetString(key string) string {
	return lookup(s, key, convert.String)
}

func (s *ConfigStore) GetInt(key string) int {
	return lookup(s, key, convert.Int)
}

func (s *ConfigStore) GetFloat(key string) float64 {
	return lookup(s, key, convert.Float)
}

func (s *ConfigStore) GetBool(key string) bool {
	return lookup(s, key, convert.Bool)
}

func (s *ConfigStore) GetStringSlice(key string) []string {
	return lookup(s, key, convert.StringSlice)
}

func lookup[T any](s *ConfigStore, key string, conv func(any) T) T {
	val, ok := s.Get(key)
	if !ok {
		var zero T
		return zero
	}
	return conv(val)
}

// Set stores a value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save rewrites the file from the current values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes through a temporary file so a crash never leaves a truncated
// config behind. The caller holds the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nest(s.data))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), fileName+".*")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load rereads the file. A missing file is an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = make(map[string]any)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	s.data = flatten(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flatten turns nested tables into dot keys: {"a": {"b": 1}} -> {"a.b": 1}.
func flatten(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			for k, v := range flatten(table, key) {
				out[k] = v
			}
			continue
		}
		out[key] = value
	}
	return out
}

// nest is the inverse of flatten. A key that is both a value and a table
// prefix keeps the value under its full dotted name.
func nest(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		table := root
		placed := true
		for _, part := range parts[:len(parts)-1] {
			next, exists := table[part]
			if !exists {
				child := make(map[string]any)
				table[part] = child
				table = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				placed = false
				break
			}
			table = child
		}
		if !placed {
			root[key] = value
			continue
		}
		last := parts[len(parts)-1]
		if _, isTable := table[last].(map[string]any); isTable {
			root[key] = value
			continue
		}
		table[last] = value
	}
	return root
}
