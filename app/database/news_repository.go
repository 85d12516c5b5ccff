package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ NewsRepository = (*NewsRepo)(nil)

type NewsRepo struct {
	db *DB
}

func NewNewsRepository(db *DB) *NewsRepo {
	return &NewsRepo{db: db}
}

const newsColumns = `n.id, n.source_id, s.name, n.guid, n.link, n.title, n.summary, n.content, n.language,
	n.published_at, n.authors, n.categories, n.content_hash, n.is_filtered, n.filter_reason,
	n.content_extraction_status, n.content_extracted_at, n.created_at`

const newsFrom = ` FROM news_items n JOIN sources s ON s.id = n.source_id`

// UpsertItem stores an item under the named source. Items are unique per
// source and GUID; a repeated GUID refreshes the text and filter fields.
func (r *NewsRepo) UpsertItem(sourceName string, item NewsItemInput) error {
	authors, err := json.Marshal(nonNil(item.Authors))
	if err != nil {
		return fmt.Errorf("failed to encode authors: %w", err)
	}
	categories, err := json.Marshal(nonNil(item.Categories))
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	res, err := r.db.Exec(`
		INSERT INTO news_items (
			id, source_id, guid, link, title, summary, content, language,
			published_at, authors, categories, content_hash, is_filtered, filter_reason, created_at
		)
		SELECT ?, s.id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM sources s WHERE s.name = ?
		ON CONFLICT (source_id, guid) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			summary = excluded.summary,
			content = CASE WHEN news_items.content_extraction_status = 'success'
				THEN news_items.content ELSE excluded.content END,
			language = excluded.language,
			authors = excluded.authors,
			categories = excluded.categories,
			content_hash = excluded.content_hash,
			is_filtered = excluded.is_filtered,
			filter_reason = excluded.filter_reason
	`, uuid.NewString(), item.GUID, item.Link, item.Title, item.Summary, item.Content, item.Language,
		item.PublishedAt.UTC(), string(authors), string(categories), item.ContentHash,
		item.IsFiltered, item.FilterReason, time.Now().UTC(), sourceName)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("source '%s' not found", sourceName)
	}

	return nil
}

// CheckDuplicate reports whether any source already stored an item with
// the same content hash.
func (r *NewsRepo) CheckDuplicate(contentHash string) (bool, error) {
	var exists int
	err := r.db.QueryRow(`SELECT 1 FROM news_items WHERE content_hash = ? LIMIT 1`, contentHash).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

// GetRecentItems returns visible items published at or after since, newest first.
func (r *NewsRepo) GetRecentItems(limit int, since time.Time) ([]NewsItem, error) {
	return r.queryItems(`SELECT `+newsColumns+newsFrom+`
		WHERE n.is_filtered = 0 AND n.published_at >= ?
		ORDER BY n.published_at DESC
		LIMIT ?`, since.UTC(), limit)
}

// GetItem returns nil without error when the item does not exist.
func (r *NewsRepo) GetItem(id string) (*NewsItem, error) {
	items, err := r.queryItems(`SELECT `+newsColumns+newsFrom+` WHERE n.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// GetAllItems returns all items for a source, including filtered ones.
func (r *NewsRepo) GetAllItems(sourceName string) ([]NewsItem, error) {
	return r.queryItems(`SELECT `+newsColumns+newsFrom+`
		WHERE s.name = ?
		ORDER BY n.published_at DESC`, sourceName)
}

func (r *NewsRepo) GetItemCount(sourceName string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM news_items n JOIN sources s ON s.id = n.source_id
		WHERE s.name = ?
	`, sourceName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *NewsRepo) UpdateItemFilterStatus(itemID string, isFiltered bool, reason string) error {
	_, err := r.db.Exec(`
		UPDATE news_items
		SET is_filtered = ?, filter_reason = ?
		WHERE id = ?
	`, isFiltered, reason, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item filter status: %w", err)
	}
	return nil
}

// GetItemsForExtraction returns visible items of a source whose page
// content has not been extracted yet.
func (r *NewsRepo) GetItemsForExtraction(sourceName string, limit int) ([]ItemForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT n.id, n.link
		FROM news_items n JOIN sources s ON s.id = n.source_id
		WHERE s.name = ?
		  AND n.is_filtered = 0
		  AND n.link != ''
		  AND n.content_extraction_status = 'pending'
		ORDER BY n.published_at DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for extraction: %w", err)
	}
	defer rows.Close()

	var items []ItemForExtraction
	for rows.Next() {
		var item ItemForExtraction
		if err := rows.Scan(&item.ID, &item.Link); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction rows: %w", err)
	}

	return items, nil
}

// UpdateExtractedContent stores extraction results. Content is replaced
// only on success.
func (r *NewsRepo) UpdateExtractedContent(itemID, content, status, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE news_items
		SET content = CASE WHEN ? = 'success' THEN ? ELSE content END,
		    content_extraction_status = ?,
		    content_extracted_at = ?,
		    content_extraction_error = ?
		WHERE id = ?
	`, status, content, status, time.Now().UTC(), errMsg, itemID)
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}
	return nil
}

func (r *NewsRepo) queryItems(query string, args ...any) ([]NewsItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []NewsItem
	for rows.Next() {
		var (
			item        NewsItem
			authors     string
			categories  string
			extractedAt sql.NullTime
		)

		err := rows.Scan(
			&item.ID, &item.SourceID, &item.SourceName, &item.GUID, &item.Link, &item.Title,
			&item.Summary, &item.Content, &item.Language, &item.PublishedAt, &authors, &categories,
			&item.ContentHash, &item.IsFiltered, &item.FilterReason,
			&item.ContentExtractionStatus, &extractedAt, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}

		if err := json.Unmarshal([]byte(authors), &item.Authors); err != nil {
			return nil, fmt.Errorf("failed to decode authors: %w", err)
		}
		if err := json.Unmarshal([]byte(categories), &item.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories: %w", err)
		}
		item.ContentExtractedAt = nullTimePtr(extractedAt)

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
