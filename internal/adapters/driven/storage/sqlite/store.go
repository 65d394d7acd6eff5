package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/artemis/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the catalog, sync state and scheduler stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.artemis/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".artemis", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// WAL mode lets readers run alongside the single writer. Transactions
	// begin IMMEDIATE so writers queue on busy_timeout instead of failing
	// with SQLITE_BUSY when a read lock is upgraded.
	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FrameworkStore returns a FrameworkStore interface backed by this store.
func (s *Store) FrameworkStore() driven.FrameworkStore {
	return &frameworkStore{store: s}
}

// WatermarkStore returns a WatermarkStore interface backed by this store.
func (s *Store) WatermarkStore() driven.WatermarkStore {
	return &watermarkStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Framework Store ====================

// frameworkStore implements driven.FrameworkStore.
type frameworkStore struct {
	store *Store
}

var _ driven.FrameworkStore = (*frameworkStore)(nil)

const frameworkColumns = `name, internal_type, discovery_date, location, description, type, category,
	number_of_detections, percentage_of_detection, detection_score, created_at, updated_at`

// Get retrieves a framework record by identity.
func (s *frameworkStore) Get(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+frameworkColumns+" FROM frameworks WHERE name = ? AND internal_type = ?",
		name, internalType)
	return scanFramework(row)
}

// Upsert reads the stored record and writes the merged one in a single transaction.
func (s *frameworkStore) Upsert(
	ctx context.Context,
	incoming domain.FrameworkRecord,
	merge driven.MergeFunc,
) (*domain.FrameworkRecord, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	row := tx.QueryRowContext(ctx,
		"SELECT "+frameworkColumns+" FROM frameworks WHERE name = ? AND internal_type = ?",
		incoming.Name, incoming.InternalType)
	stored, err := scanFramework(row)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	merged, err := merge(stored, incoming)
	if err != nil {
		return nil, err
	}
	merged.Name, merged.InternalType = incoming.Name, incoming.InternalType

	_, err = tx.ExecContext(ctx, `
		INSERT INTO frameworks (`+frameworkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, internal_type) DO UPDATE SET
			discovery_date = excluded.discovery_date,
			location = excluded.location,
			description = excluded.description,
			type = excluded.type,
			category = excluded.category,
			number_of_detections = excluded.number_of_detections,
			percentage_of_detection = excluded.percentage_of_detection,
			detection_score = excluded.detection_score,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, merged.Name, merged.InternalType, merged.DiscoveryDate, merged.Location, merged.Description,
		string(merged.Type), merged.Category, merged.NumberOfDetections, merged.PercentageOfDetection,
		merged.DetectionScore, formatNullableTime(merged.CreatedAt), formatNullableTime(merged.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("saving framework: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing framework: %w", err)
	}
	return &merged, nil
}

// FindByName returns every record with the exact name.
func (s *frameworkStore) FindByName(ctx context.Context, name string) ([]domain.FrameworkRecord, error) {
	return s.query(ctx,
		"SELECT "+frameworkColumns+" FROM frameworks WHERE name = ? ORDER BY internal_type",
		name)
}

// FindNameContains returns at most limit records whose name contains substr.
func (s *frameworkStore) FindNameContains(
	ctx context.Context,
	substr string,
	limit int,
) ([]domain.FrameworkRecord, error) {
	return s.query(ctx,
		"SELECT "+frameworkColumns+` FROM frameworks
		WHERE instr(name, ?) > 0
		ORDER BY name, internal_type LIMIT ?`,
		substr, limit)
}

// List returns a page of records ordered by name and internal type.
func (s *frameworkStore) List(
	ctx context.Context,
	filter domain.FrameworkFilter,
	offset, limit int,
) ([]domain.FrameworkRecord, error) {
	return s.query(ctx,
		"SELECT "+frameworkColumns+` FROM frameworks
		WHERE (? = '' OR internal_type = ?)
		ORDER BY name, internal_type LIMIT ? OFFSET ?`,
		filter.InternalType, filter.InternalType, limit, offset)
}

// Count returns the number of records matching the filter.
func (s *frameworkStore) Count(ctx context.Context, filter domain.FrameworkFilter) (int64, error) {
	var n int64
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM frameworks WHERE (? = '' OR internal_type = ?)",
		filter.InternalType, filter.InternalType)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting frameworks: %w", err)
	}
	return n, nil
}

func (s *frameworkStore) query(ctx context.Context, query string, args ...any) ([]domain.FrameworkRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying frameworks: %w", err)
	}
	defer rows.Close()

	records := []domain.FrameworkRecord{}
	for rows.Next() {
		r, err := scanFramework(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating frameworks: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFramework(row rowScanner) (*domain.FrameworkRecord, error) {
	var r domain.FrameworkRecord
	var frameworkType string
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(&r.Name, &r.InternalType, &r.DiscoveryDate, &r.Location, &r.Description,
		&frameworkType, &r.Category, &r.NumberOfDetections, &r.PercentageOfDetection,
		&r.DetectionScore, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning framework: %w", err)
	}

	r.Type = domain.FrameworkType(frameworkType)
	r.CreatedAt = parseNullableTime(createdAt)
	r.UpdatedAt = parseNullableTime(updatedAt)
	return &r, nil
}

// ==================== Watermark Store ====================

// watermarkStore implements driven.WatermarkStore.
type watermarkStore struct {
	store *Store
}

var _ driven.WatermarkStore = (*watermarkStore)(nil)

// Save replaces the watermark of w.Remote.
func (s *watermarkStore) Save(ctx context.Context, w domain.Watermark) error {
	if w.Remote == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO oracle_watermarks (remote, last_update, synced_at, records)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(remote) DO UPDATE SET
			last_update = excluded.last_update,
			synced_at = excluded.synced_at,
			records = excluded.records
	`, w.Remote, formatNullableTime(w.LastUpdate), formatNullableTime(w.SyncedAt), w.Records)
	if err != nil {
		return fmt.Errorf("saving watermark: %w", err)
	}
	return nil
}

// Get returns the watermark of a remote, or domain.ErrNotFound.
func (s *watermarkStore) Get(ctx context.Context, remote string) (*domain.Watermark, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT remote, last_update, synced_at, records
		FROM oracle_watermarks WHERE remote = ?
	`, remote)

	var w domain.Watermark
	var lastUpdate, syncedAt sql.NullString
	if err := row.Scan(&w.Remote, &lastUpdate, &syncedAt, &w.Records); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning watermark: %w", err)
	}

	w.LastUpdate = parseNullableTime(lastUpdate)
	w.SyncedAt = parseNullableTime(syncedAt)
	return &w, nil
}

// Delete forgets a remote.
func (s *watermarkStore) Delete(ctx context.Context, remote string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM oracle_watermarks WHERE remote = ?", remote)
	if err != nil {
		return fmt.Errorf("deleting watermark: %w", err)
	}
	return nil
}

// formatNullableTime formats a time as RFC3339 with nanoseconds, or nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
