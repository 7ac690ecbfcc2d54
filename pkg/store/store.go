// Package store implements the persistent, embedded-relational cache
// layer for repository facts (tags, per-tag commits) and upstream issue
// and pull-request records.
package store

import (
	"database/sql"
	"fmt"

	// sqlite3 registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS tags (
	repository_url TEXT NOT NULL,
	name TEXT NOT NULL,
	commit_id TEXT NOT NULL,
	commit_timestamp INTEGER NOT NULL,
	PRIMARY KEY (repository_url, name)
);

CREATE TABLE IF NOT EXISTS commits_for_each_tag (
	repository_url TEXT NOT NULL,
	tag_name TEXT NOT NULL,
	commit_id TEXT NOT NULL,
	author_name TEXT NOT NULL,
	author_email TEXT NOT NULL,
	creation_timestamp INTEGER NOT NULL,
	PRIMARY KEY (repository_url, tag_name, commit_id)
);

CREATE TABLE IF NOT EXISTS issues (
	provider TEXT NOT NULL,
	organization TEXT NOT NULL,
	repository TEXT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (provider, organization, repository, body)
);

CREATE TABLE IF NOT EXISTS pull_requests (
	provider TEXT NOT NULL,
	organization TEXT NOT NULL,
	repository TEXT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (provider, organization, repository, body)
);
`

// Store is a single shared connection to the embedded relational file
// backing both the tag/commit store (§4.2) and the issue store (§4.3).
// database/sql's pool is capped at one open connection so all operations
// are serialized, matching the single-mutex-guarded-connection model.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite file at path and applies the
// schema. Failure to open aborts the caller per the fatal-error policy.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()

		return nil, fmt.Errorf("apply schema: %w", execErr)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}
