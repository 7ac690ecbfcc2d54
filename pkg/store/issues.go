package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// RecordKey identifies one upstream repository's issue or pull-request set.
type RecordKey struct {
	Provider     string
	Organization string
	Repository   string
}

// NewRecordKey builds a RecordKey from its three components.
func NewRecordKey(provider, organization, repository string) RecordKey {
	return RecordKey{Provider: provider, Organization: organization, Repository: repository}
}

// GetIssues returns the cached issue bodies for the given repository.
// ok is false when no rows match ("absent").
func (s *Store) GetIssues(ctx context.Context, key RecordKey) (bodies []json.RawMessage, ok bool, err error) {
	return s.getRecords(ctx, "issues", key)
}

// SaveIssues upserts issue bodies for the given repository inside one
// transaction, using "insert or ignore" so repeated saves are safe.
func (s *Store) SaveIssues(ctx context.Context, key RecordKey, bodies []json.RawMessage) error {
	return s.saveRecords(ctx, "issues", key, bodies)
}

// GetPullRequests returns the cached pull-request bodies for the given
// repository. ok is false when no rows match.
func (s *Store) GetPullRequests(ctx context.Context, key RecordKey) (bodies []json.RawMessage, ok bool, err error) {
	return s.getRecords(ctx, "pull_requests", key)
}

// SavePullRequests upserts pull-request bodies for the given repository
// inside one transaction.
func (s *Store) SavePullRequests(ctx context.Context, key RecordKey, bodies []json.RawMessage) error {
	return s.saveRecords(ctx, "pull_requests", key, bodies)
}

func (s *Store) getRecords(ctx context.Context, table string, key RecordKey) ([]json.RawMessage, bool, error) {
	query := fmt.Sprintf(
		`SELECT body FROM %s WHERE provider = ? AND organization = ? AND repository = ?`, table)

	rows, err := s.db.QueryContext(ctx, query, key.Provider, key.Organization, key.Repository)
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var bodies []json.RawMessage

	for rows.Next() {
		var body []byte

		if scanErr := rows.Scan(&body); scanErr != nil {
			return nil, false, fmt.Errorf("scan %s row: %w", table, scanErr)
		}

		bodies = append(bodies, json.RawMessage(body))
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, false, fmt.Errorf("iterate %s rows: %w", table, rowsErr)
	}

	if len(bodies) == 0 {
		return nil, false, nil
	}

	return bodies, true, nil
}

func (s *Store) saveRecords(ctx context.Context, table string, key RecordKey, bodies []json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", table, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed.

	query := fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (provider, organization, repository, body) VALUES (?, ?, ?, ?)`, table)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, body := range bodies {
		if _, execErr := stmt.ExecContext(ctx, key.Provider, key.Organization, key.Repository, []byte(body)); execErr != nil {
			return fmt.Errorf("insert %s record: %w", table, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit %s tx: %w", table, commitErr)
	}

	return nil
}
