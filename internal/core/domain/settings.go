package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ModelStoreKind selects where trained model artifacts are kept.
type ModelStoreKind string

// Available model stores.
const (
	ModelStoreFile ModelStoreKind = "file"
	ModelStoreS3   ModelStoreKind = "s3"
)

// IsValid returns true if the model store kind is recognised.
func (k ModelStoreKind) IsValid() bool {
	return k == ModelStoreFile || k == ModelStoreS3
}

// String returns the string representation.
func (k ModelStoreKind) String() string {
	return string(k)
}

// Settings is the immutable process configuration.
// It is built once at start-up and passed to the components that need it.
type Settings struct {
	// PersistenceEnabled turns catalog writes on. When off, writes are dry runs.
	PersistenceEnabled bool

	Classifier ClassifierSettings
	Model      ModelSettings
	Oracle     OracleSettings
	Graph      GraphSettings
	Storage    StorageSettings
	Report     ReportSettings
	Mail       MailSettings

	// Verbose enables debug logging.
	Verbose bool
}

// ClassifierSettings holds text classifier configuration.
type ClassifierSettings struct {
	// ConfidenceThreshold is the minimum top probability of a CONFIDENT result.
	ConfidenceThreshold float64

	// CorpusDir overrides the embedded training corpus when set.
	CorpusDir string
}

// ModelSettings holds model artifact storage configuration.
type ModelSettings struct {
	Store ModelStoreKind
	Dir   string
	S3    S3Settings
}

// S3Settings holds S3 compatible object storage configuration.
type S3Settings struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// OracleSettings holds remote oracle configuration.
type OracleSettings struct {
	Enabled       bool
	URL           string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	CacheSize     int
	Retry         RetryPolicy

	// SyncInterval schedules periodic syncs while serving. Zero disables them.
	SyncInterval time.Duration
}

// RetryPolicy is how many times a remote lookup is attempted, and how long
// to wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
}

// Attempts returns the number of attempts, at least one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// GraphSettings holds graph database configuration.
type GraphSettings struct {
	URI      string
	Username string
	Password string
	Database string
	Schema   GraphSchema
}

// GraphSchema names the labels and properties of code objects in the graph.
type GraphSchema struct {
	ObjectLabel       string
	NameField         string
	FullNameField     string
	TypeField         string
	InternalTypeField string
	ExternalField     string
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be used as a graph label or property name.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Validate checks that every schema name is a plain identifier.
func (s GraphSchema) Validate() error {
	names := map[string]string{
		"object_label":        s.ObjectLabel,
		"name_field":          s.NameField,
		"full_name_field":     s.FullNameField,
		"type_field":          s.TypeField,
		"internal_type_field": s.InternalTypeField,
		"external_field":      s.ExternalField,
	}
	for key, name := range names {
		if !IsIdentifier(name) {
			return fmt.Errorf("%w: graph.%s %q is not a valid identifier", ErrInvalidInput, key, name)
		}
	}
	return nil
}

// StorageSettings holds local storage configuration.
type StorageSettings struct {
	DataDir string
}

// ReportSettings holds report output configuration.
type ReportSettings struct {
	// Dir receives one JSON report per run. Empty disables report files.
	Dir string
}

// MailSettings holds SMTP notification configuration.
type MailSettings struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// DefaultSettings returns settings with defaults rooted at baseDir.
func DefaultSettings(baseDir string) Settings {
	return Settings{
		PersistenceEnabled: true,
		Classifier: ClassifierSettings{
			ConfidenceThreshold: 0.80,
		},
		Model: ModelSettings{
			Store: ModelStoreFile,
			Dir:   filepath.Join(baseDir, "models"),
		},
		Oracle: OracleSettings{
			Timeout:       10 * time.Second,
			RatePerSecond: 5,
			CacheSize:     512,
			Retry: RetryPolicy{
				MaxAttempts: 1,
				Wait:        500 * time.Millisecond,
			},
		},
		Graph: GraphSettings{
			Schema: GraphSchema{
				ObjectLabel:       "Object",
				NameField:         "Name",
				FullNameField:     "FullName",
				TypeField:         "Type",
				InternalTypeField: "InternalType",
				ExternalField:     "External",
			},
		},
		Storage: StorageSettings{
			DataDir: filepath.Join(baseDir, "data"),
		},
		Mail: MailSettings{
			Port: 587,
		},
	}
}

// Validate checks the settings for missing or out of range values.
func (s Settings) Validate() error {
	if s.Classifier.ConfidenceThreshold < 0 || s.Classifier.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: classifier.confidence_threshold must be between 0 and 1", ErrInvalidInput)
	}
	if !s.Model.Store.IsValid() {
		return fmt.Errorf("%w: unknown model.store %q", ErrInvalidInput, s.Model.Store)
	}
	if s.Model.Store == ModelStoreS3 {
		if s.Model.S3.Endpoint == "" || s.Model.S3.Bucket == "" {
			return fmt.Errorf("%w: model.s3.endpoint and model.s3.bucket", ErrConfigurationMissing)
		}
	} else if s.Model.Dir == "" {
		return fmt.Errorf("%w: model.dir", ErrConfigurationMissing)
	}
	if s.Oracle.Enabled && strings.TrimSpace(s.Oracle.URL) == "" {
		return fmt.Errorf("%w: oracle.url", ErrConfigurationMissing)
	}
	if s.Oracle.SyncInterval < 0 {
		return fmt.Errorf("%w: oracle.sync_interval_minutes cannot be negative", ErrInvalidInput)
	}
	if s.Oracle.RatePerSecond < 0 {
		return fmt.Errorf("%w: oracle.rate_per_second cannot be negative", ErrInvalidInput)
	}
	if s.Mail.Enabled {
		if s.Mail.Host == "" || s.Mail.From == "" || len(s.Mail.Recipients) == 0 {
			return fmt.Errorf("%w: mail.host, mail.from and mail.recipients", ErrConfigurationMissing)
		}
	}
	return s.Graph.Schema.Validate()
}

// RequireGraph checks that a graph database is configured.
func (s Settings) RequireGraph() error {
	if strings.TrimSpace(s.Graph.URI) == "" {
		return fmt.Errorf("%w: graph.uri", ErrConfigurationMissing)
	}
	return nil
}
