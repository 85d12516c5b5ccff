package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ SourceRepository = (*SourceRepo)(nil)

type SourceRepo struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, url, priority, title, link, description, language,
	last_fetched_at, next_fetch_at, fetch_count, error_count, last_error, created_at, updated_at`

// UpsertSource creates the source row or refreshes its URL and priority.
func (r *SourceRepo) UpsertSource(name, url string, priority int) error {
	now := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO sources (id, name, url, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			priority = excluded.priority,
			updated_at = excluded.updated_at
	`, uuid.NewString(), name, url, priority, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

func (r *SourceRepo) UpdateSourceMetadata(name, title, link, description, language string) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET title = ?, link = ?, description = ?, language = ?, updated_at = ?
		WHERE name = ?
	`, title, link, description, language, time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to update source metadata: %w", err)
	}

	return nil
}

// UpdateFetchResult records a fetch attempt. A nil fetchErr counts as a
// success and clears the last error.
func (r *SourceRepo) UpdateFetchResult(name string, nextFetch time.Time, fetchErr error) error {
	now := time.Now().UTC()

	var err error
	if fetchErr == nil {
		_, err = r.db.Exec(`
			UPDATE sources
			SET last_fetched_at = ?, next_fetch_at = ?, fetch_count = fetch_count + 1,
			    last_error = '', updated_at = ?
			WHERE name = ?
		`, now, nextFetch.UTC(), now, name)
	} else {
		_, err = r.db.Exec(`
			UPDATE sources
			SET last_fetched_at = ?, next_fetch_at = ?, error_count = error_count + 1,
			    last_error = ?, updated_at = ?
			WHERE name = ?
		`, now, nextFetch.UTC(), fetchErr.Error(), now, name)
	}
	if err != nil {
		return fmt.Errorf("failed to update fetch result: %w", err)
	}

	return nil
}

// GetSource returns nil without error when the source does not exist.
func (r *SourceRepo) GetSource(name string) (*Source, error) {
	row := r.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE name = ?`, name)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return source, nil
}

func (r *SourceRepo) ListSources() ([]Source, error) {
	rows, err := r.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY priority, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var (
		s           Source
		lastFetched sql.NullTime
		nextFetch   sql.NullTime
	)

	err := row.Scan(
		&s.ID, &s.Name, &s.URL, &s.Priority, &s.Title, &s.Link, &s.Description, &s.Language,
		&lastFetched, &nextFetch, &s.FetchCount, &s.ErrorCount, &s.LastError, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.LastFetchedAt = nullTimePtr(lastFetched)
	s.NextFetchAt = nullTimePtr(nextFetch)
	return &s, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
