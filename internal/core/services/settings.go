package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyPersistenceEnabled  = "persistence.enabled"
	KeyConfidenceThreshold = "classifier.confidence_threshold"
	KeyCorpusDir           = "classifier.corpus_dir"
	KeyModelStore          = "model.store"
	KeyModelDir            = "model.dir"
	KeyModelS3Endpoint     = "model.s3.endpoint"
	KeyModelS3Bucket       = "model.s3.bucket"
	KeyModelS3AccessKey    = "model.s3.access_key"
	KeyModelS3SecretKey    = "model.s3.secret_key"
	KeyModelS3Region       = "model.s3.region"
	KeyModelS3UseSSL       = "model.s3.use_ssl"
	KeyOracleEnabled       = "oracle.enabled"
	KeyOracleURL           = "oracle.url"
	KeyOracleToken         = "oracle.token"
	KeyOracleTimeout       = "oracle.timeout_seconds"
	KeyOracleRate          = "oracle.rate_per_second"
	KeyOracleCacheSize     = "oracle.cache_size"
	KeyOracleRetryAttempts = "oracle.retry.max_attempts"
	KeyOracleRetryWait     = "oracle.retry.wait_ms"
	KeyOracleSyncInterval  = "oracle.sync_interval_minutes"
	KeyGraphURI            = "graph.uri"
	KeyGraphUsername       = "graph.username"
	KeyGraphPassword       = "graph.password"
	KeyGraphDatabase       = "graph.database"
	KeyGraphObjectLabel    = "graph.object_label"
	KeyGraphNameField      = "graph.name_field"
	KeyGraphFullNameField  = "graph.full_name_field"
	KeyGraphTypeField      = "graph.type_field"
	KeyGraphInternalField  = "graph.internal_type_field"
	KeyGraphExternalField  = "graph.external_field"
	KeyStorageDataDir      = "storage.data_dir"
	KeyReportDir           = "report.dir"
	KeyMailEnabled         = "mail.enabled"
	KeyMailHost            = "mail.host"
	KeyMailPort            = "mail.port"
	KeyMailUsername        = "mail.username"
	KeyMailPassword        = "mail.password"
	KeyMailFrom            = "mail.from"
	KeyMailRecipients      = "mail.recipients"
	KeyLoggingVerbose      = "logging.verbose"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindStrings
)

var settingKinds = map[string]settingKind{
	KeyPersistenceEnabled:  kindBool,
	KeyConfidenceThreshold: kindFloat,
	KeyCorpusDir:           kindString,
	KeyModelStore:          kindString,
	KeyModelDir:            kindString,
	KeyModelS3Endpoint:     kindString,
	KeyModelS3Bucket:       kindString,
	KeyModelS3AccessKey:    kindString,
	KeyModelS3SecretKey:    kindString,
	KeyModelS3Region:       kindString,
	KeyModelS3UseSSL:       kindBool,
	KeyOracleEnabled:       kindBool,
	KeyOracleURL:           kindString,
	KeyOracleToken:         kindString,
	KeyOracleTimeout:       kindInt,
	KeyOracleRate:          kindFloat,
	KeyOracleCacheSize:     kindInt,
	KeyOracleRetryAttempts: kindInt,
	KeyOracleRetryWait:     kindInt,
	KeyOracleSyncInterval:  kindInt,
	KeyGraphURI:            kindString,
	KeyGraphUsername:       kindString,
	KeyGraphPassword:       kindString,
	KeyGraphDatabase:       kindString,
	KeyGraphObjectLabel:    kindString,
	KeyGraphNameField:      kindString,
	KeyGraphFullNameField:  kindString,
	KeyGraphTypeField:      kindString,
	KeyGraphInternalField:  kindString,
	KeyGraphExternalField:  kindString,
	KeyStorageDataDir:      kindString,
	KeyReportDir:           kindString,
	KeyMailEnabled:         kindBool,
	KeyMailHost:            kindString,
	KeyMailPort:            kindInt,
	KeyMailUsername:        kindString,
	KeyMailPassword:        kindString,
	KeyMailFrom:            kindString,
	KeyMailRecipients:      kindStrings,
	KeyLoggingVerbose:      kindBool,
}

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService reads and writes application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	baseDir     string
}

// NewSettingsService creates a settings service. baseDir roots the default paths.
func NewSettingsService(configStore driven.ConfigStore, baseDir string) *SettingsService {
	return &SettingsService{configStore: configStore, baseDir: baseDir}
}

// Get builds the validated settings from the defaults and the config store.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings(s.baseDir)

	s.boolVal(KeyPersistenceEnabled, &settings.PersistenceEnabled)
	s.floatVal(KeyConfidenceThreshold, &settings.Classifier.ConfidenceThreshold)
	s.stringVal(KeyCorpusDir, &settings.Classifier.CorpusDir)

	var store string
	if s.stringVal(KeyModelStore, &store) {
		settings.Model.Store = domain.ModelStoreKind(strings.ToLower(store))
	}
	s.stringVal(KeyModelDir, &settings.Model.Dir)
	s.stringVal(KeyModelS3Endpoint, &settings.Model.S3.Endpoint)
	s.stringVal(KeyModelS3Bucket, &settings.Model.S3.Bucket)
	s.stringVal(KeyModelS3AccessKey, &settings.Model.S3.AccessKey)
	s.stringVal(KeyModelS3SecretKey, &settings.Model.S3.SecretKey)
	s.stringVal(KeyModelS3Region, &settings.Model.S3.Region)
	s.boolVal(KeyModelS3UseSSL, &settings.Model.S3.UseSSL)

	s.boolVal(KeyOracleEnabled, &settings.Oracle.Enabled)
	s.stringVal(KeyOracleURL, &settings.Oracle.URL)
	s.stringVal(KeyOracleToken, &settings.Oracle.Token)
	s.durationVal(KeyOracleTimeout, time.Second, &settings.Oracle.Timeout)
	s.floatVal(KeyOracleRate, &settings.Oracle.RatePerSecond)
	s.intVal(KeyOracleCacheSize, &settings.Oracle.CacheSize)
	s.intVal(KeyOracleRetryAttempts, &settings.Oracle.Retry.MaxAttempts)
	s.durationVal(KeyOracleRetryWait, time.Millisecond, &settings.Oracle.Retry.Wait)
	s.durationVal(KeyOracleSyncInterval, time.Minute, &settings.Oracle.SyncInterval)

	s.stringVal(KeyGraphURI, &settings.Graph.URI)
	s.stringVal(KeyGraphUsername, &settings.Graph.Username)
	s.stringVal(KeyGraphPassword, &settings.Graph.Password)
	s.stringVal(KeyGraphDatabase, &settings.Graph.Database)
	s.stringVal(KeyGraphObjectLabel, &settings.Graph.Schema.ObjectLabel)
	s.stringVal(KeyGraphNameField, &settings.Graph.Schema.NameField)
	s.stringVal(KeyGraphFullNameField, &settings.Graph.Schema.FullNameField)
	s.stringVal(KeyGraphTypeField, &settings.Graph.Schema.TypeField)
	s.stringVal(KeyGraphInternalField, &settings.Graph.Schema.InternalTypeField)
	s.stringVal(KeyGraphExternalField, &settings.Graph.Schema.ExternalField)

	s.stringVal(KeyStorageDataDir, &settings.Storage.DataDir)
	s.stringVal(KeyReportDir, &settings.Report.Dir)

	s.boolVal(KeyMailEnabled, &settings.Mail.Enabled)
	s.stringVal(KeyMailHost, &settings.Mail.Host)
	s.intVal(KeyMailPort, &settings.Mail.Port)
	s.stringVal(KeyMailUsername, &settings.Mail.Username)
	s.stringVal(KeyMailPassword, &settings.Mail.Password)
	s.stringVal(KeyMailFrom, &settings.Mail.From)
	if r := s.configStore.GetStringSlice(KeyMailRecipients); len(r) > 0 {
		settings.Mail.Recipients = r
	}

	s.boolVal(KeyLoggingVerbose, &settings.Verbose)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings from %s: %w", s.configStore.Path(), err)
	}
	return &settings, nil
}

// Set parses and stores one setting.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var value any
	var err error
	switch kind {
	case kindInt:
		value, err = strconv.Atoi(strings.TrimSpace(raw))
	case kindFloat:
		value, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case kindBool:
		value, err = strconv.ParseBool(strings.TrimSpace(raw))
	case kindStrings:
		value = splitList(raw)
	default:
		value = raw
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every known setting key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsSecret reports whether a setting holds a credential.
func (s *SettingsService) IsSecret(key string) bool {
	return IsSecret(key)
}

// IsSecret reports whether a setting key names a credential.
func IsSecret(key string) bool {
	return strings.HasSuffix(key, "password") || strings.HasSuffix(key, "token") ||
		strings.HasSuffix(key, "secret_key")
}

func (s *SettingsService) stringVal(key string, dst *string) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return false
	}
	*dst = s.configStore.GetString(key)
	return true
}

func (s *SettingsService) intVal(key string, dst *int) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetInt(key)
	}
}

func (s *SettingsService) floatVal(key string, dst *float64) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetFloat(key)
	}
}

func (s *SettingsService) boolVal(key string, dst *bool) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetBool(key)
	}
}

func (s *SettingsService) durationVal(key string, unit time.Duration, dst *time.Duration) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = time.Duration(s.configStore.GetInt(key)) * unit
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
