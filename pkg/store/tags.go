package store

import (
	"context"
	"fmt"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
)

// GetAllTags returns the tags cached for repositoryURL, ordered ascending
// by commit timestamp. ok is false when no rows match ("absent").
func (s *Store) GetAllTags(ctx context.Context, repositoryURL string) (tags depmodel.Tags, ok bool, err error) {
	rows, queryErr := s.db.QueryContext(ctx,
		`SELECT name, commit_id, commit_timestamp FROM tags WHERE repository_url = ? ORDER BY commit_timestamp ASC`,
		repositoryURL)
	if queryErr != nil {
		return nil, false, fmt.Errorf("query tags: %w", queryErr)
	}
	defer rows.Close()

	for rows.Next() {
		var tag depmodel.Tag

		if scanErr := rows.Scan(&tag.Name, &tag.CommitID, &tag.CommitTimestamp); scanErr != nil {
			return nil, false, fmt.Errorf("scan tag row: %w", scanErr)
		}

		tags = append(tags, tag)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, false, fmt.Errorf("iterate tag rows: %w", rowsErr)
	}

	if len(tags) == 0 {
		return nil, false, nil
	}

	return tags, true, nil
}

// SaveAllTags upserts tags for repositoryURL inside one transaction, using
// "insert or ignore" so repeated saves from concurrent writers are safe.
func (s *Store) SaveAllTags(ctx context.Context, repositoryURL string, tags depmodel.Tags) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tags tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed.

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO tags (repository_url, name, commit_id, commit_timestamp) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tags insert: %w", err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, execErr := stmt.ExecContext(ctx, repositoryURL, tag.Name, tag.CommitID, tag.CommitTimestamp); execErr != nil {
			return fmt.Errorf("insert tag %s: %w", tag.Name, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit tags tx: %w", commitErr)
	}

	return nil
}

// GetCommitsForEachTag returns the commits-per-tag map for repositoryURL.
// ok is false when no rows match.
func (s *Store) GetCommitsForEachTag(
	ctx context.Context,
	repositoryURL string,
) (result map[string][]depmodel.Commit, ok bool, err error) {
	rows, queryErr := s.db.QueryContext(ctx,
		`SELECT tag_name, commit_id, author_name, author_email, creation_timestamp
		 FROM commits_for_each_tag WHERE repository_url = ?`, repositoryURL)
	if queryErr != nil {
		return nil, false, fmt.Errorf("query commits for each tag: %w", queryErr)
	}
	defer rows.Close()

	result = make(map[string][]depmodel.Commit)

	for rows.Next() {
		var (
			tagName string
			commit  depmodel.Commit
		)

		scanErr := rows.Scan(&tagName, &commit.ID, &commit.AuthorName, &commit.AuthorEmail, &commit.CreationTimestamp)
		if scanErr != nil {
			return nil, false, fmt.Errorf("scan commit row: %w", scanErr)
		}

		result[tagName] = append(result[tagName], commit)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, false, fmt.Errorf("iterate commit rows: %w", rowsErr)
	}

	if len(result) == 0 {
		return nil, false, nil
	}

	return result, true, nil
}

// SaveCommitsForEachTag persists the commits-per-tag map inside one transaction.
func (s *Store) SaveCommitsForEachTag(ctx context.Context, repositoryURL string, commitsByTag map[string][]depmodel.Commit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commits tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed.

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO commits_for_each_tag
			(repository_url, tag_name, commit_id, author_name, author_email, creation_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare commits insert: %w", err)
	}
	defer stmt.Close()

	for tagName, commits := range commitsByTag {
		for _, commit := range commits {
			_, execErr := stmt.ExecContext(ctx, repositoryURL, tagName,
				commit.ID, commit.AuthorName, commit.AuthorEmail, commit.CreationTimestamp)
			if execErr != nil {
				return fmt.Errorf("insert commit %s for tag %s: %w", commit.ID, tagName, execErr)
			}
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit commits tx: %w", commitErr)
	}

	return nil
}

