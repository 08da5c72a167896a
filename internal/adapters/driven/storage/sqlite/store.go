package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/optz/gh-freshdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Store is a SQLite database holding the run journal.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at dbPath and applies pending
// migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
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

// Journal returns a MigrationJournal backed by this store.
func (s *Store) Journal() driven.MigrationJournal {
	return &journal{store: s}
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_journal.up.sql" -> 1
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

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Journal ====================

// journal implements driven.MigrationJournal.
type journal struct {
	store *Store
}

var _ driven.MigrationJournal = (*journal)(nil)

const journalColumns = "run_id, issue_number, ticket_id, outcome, marked, error, recorded_at"

// Record appends an entry.
func (j *journal) Record(ctx context.Context, entry domain.JournalEntry) error {
	if entry.RunID == "" || entry.IssueNumber <= 0 {
		return fmt.Errorf("%w: journal entry needs a run id and issue number", domain.ErrInvalidInput)
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	_, err := j.store.db.ExecContext(ctx,
		"INSERT INTO journal ("+journalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		entry.RunID,
		entry.IssueNumber,
		entry.TicketID,
		string(entry.Outcome),
		entry.Marked,
		entry.Error,
		entry.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *journal) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.store.db.QueryContext(ctx,
		"SELECT "+journalColumns+" FROM journal ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	return scanEntries(rows)
}

// ForIssue returns every entry for an issue, newest first.
func (j *journal) ForIssue(ctx context.Context, number int) ([]domain.JournalEntry, error) {
	rows, err := j.store.db.QueryContext(ctx,
		"SELECT "+journalColumns+" FROM journal WHERE issue_number = ? ORDER BY id DESC", number)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var (
			e          domain.JournalEntry
			outcome    string
			recordedAt string
		)
		if err := rows.Scan(&e.RunID, &e.IssueNumber, &e.TicketID, &outcome, &e.Marked, &e.Error, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Outcome = domain.Outcome(outcome)
		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
		}
		e.RecordedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
