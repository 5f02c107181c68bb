package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLConfig selects the database backing an SQLStore.
//
// Driver "sqlite" with DSN ":memory:" mirrors the original deployment's
// default; "postgres" takes a standard connection string for installations
// that already run one.
type SQLConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens the configured database and ensures the answers table
// exists.
func NewSQLStore(config SQLConfig) (*SQLStore, error) {
	driver := config.Driver
	if driver == "" {
		driver = "sqlite"
	}
	dsn := config.DSN
	if dsn == "" && driver == "sqlite" {
		dsn = ":memory:"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == "sqlite" {
		// modernc sqlite serializes writes itself; a single connection
		// avoids table-lock errors on the in-memory DSN.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := &SQLStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS answers (
		id TEXT PRIMARY KEY,
		encrypted TEXT NOT NULL,
		captcha TEXT NOT NULL
	);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save inserts a submission under a fresh random id and returns the id.
func (s *SQLStore) Save(ctx context.Context, submission Submission) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (id, encrypted, captcha) VALUES ($1, $2, $3)`,
		id, submission.Encrypted, submission.Captcha)
	if err != nil {
		return "", fmt.Errorf("inserting answer: %w", err)
	}
	return id, nil
}

// All returns every stored submission keyed by id.
func (s *SQLStore) All(ctx context.Context) (map[string]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, encrypted, captcha FROM answers`)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Submission)
	for rows.Next() {
		var id string
		var submission Submission
		if err := rows.Scan(&id, &submission.Encrypted, &submission.Captcha); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		out[id] = submission
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
