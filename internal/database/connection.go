package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = errors.New("database: not found")

// Store is the persistent user and flashcard store.
// Every method is safe for concurrent use; each mutation is a single
// statement or a short transaction scoped to one card or one user.
type Store struct {
	db *sqlx.DB
}

// Open establishes a connection to the database and creates the schema
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if err := ensureDataDir(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers, and an in-memory
		// database only lives as long as its single connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("database: connected (%s)", driver)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the name of the SQL driver in use
func (s *Store) Driver() string {
	return s.db.DriverName()
}

func (s *Store) isPostgres() bool {
	return s.db.DriverName() == DriverPostgres
}

// ensureDataDir creates the parent directory of a file-backed SQLite database
func ensureDataDir(dsn string) error {
	path := dsn
	if strings.HasPrefix(path, "file:") {
		path = strings.TrimPrefix(path, "file:")
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func (s *Store) initializeSchema() error {
	statements := sqliteSchema
	if s.isPostgres() {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		reminder_enabled BOOLEAN NOT NULL DEFAULT 1,
		reminder_time TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS flashcards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT,
		answer_ref INTEGER,
		box INTEGER NOT NULL DEFAULT 1 CHECK (box >= 1),
		due_date TEXT NOT NULL,
		created_on TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flashcards_user_due ON flashcards (user_id, due_date)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		reminder_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		reminder_time TEXT,
		created_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS flashcards (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		answer TEXT,
		answer_ref BIGINT,
		box INTEGER NOT NULL DEFAULT 1 CHECK (box >= 1),
		due_date DATE NOT NULL,
		created_on DATE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flashcards_user_due ON flashcards (user_id, due_date)`,
}
