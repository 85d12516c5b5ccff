package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var _ ArticleRepository = (*ArticleRepo)(nil)

const defaultArticleLimit = 50

type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

var articleColumns = []string{
	"id", "title", "content", "summary", "article_type", "writing_style",
	"source_news_id", "source_news_title", "source_news_url", "filename",
	"quality_score", "quality_grade", "quality_scores", "word_count", "created_at", "updated_at",
}

// Create assigns ID and timestamps and inserts the article.
func (r *ArticleRepo) Create(article *Article) error {
	scores, err := encodeScores(article.QualityScores)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	article.ID = uuid.NewString()
	article.CreatedAt = now
	article.UpdatedAt = now

	query, args, err := sq.Insert("articles").
		Columns(articleColumns...).
		Values(article.ID, article.Title, article.Content, article.Summary, article.ArticleType,
			article.WritingStyle, article.SourceNewsID, article.SourceNewsTitle, article.SourceNewsURL,
			article.Filename, article.QualityScore, article.QualityGrade, scores, article.WordCount,
			article.CreatedAt, article.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// Get returns ErrNotFound for missing or soft-deleted articles.
func (r *ArticleRepo) Get(id string) (*Article, error) {
	articles, err := r.query(r.selectBuilder().Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

// List returns live articles matching filter, newest first.
func (r *ArticleRepo) List(filter ArticleFilter) ([]Article, error) {
	builder := r.selectBuilder().OrderBy("created_at DESC")

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"article_type": filter.Type})
	}
	if filter.Grade != "" {
		builder = builder.Where(sq.Eq{"quality_grade": filter.Grade})
	}
	if filter.MinScore > 0 {
		builder = builder.Where(sq.GtOrEq{"quality_score": filter.MinScore})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	builder = builder.Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	articles, err := r.query(builder)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []Article{}
	}
	return articles, nil
}

// Update rewrites the editable fields of a live article.
func (r *ArticleRepo) Update(article *Article) error {
	scores, err := encodeScores(article.QualityScores)
	if err != nil {
		return err
	}

	article.UpdatedAt = time.Now().UTC()

	query, args, err := sq.Update("articles").
		Set("title", article.Title).
		Set("content", article.Content).
		Set("quality_score", article.QualityScore).
		Set("quality_grade", article.QualityGrade).
		Set("quality_scores", scores).
		Set("word_count", article.WordCount).
		Set("updated_at", article.UpdatedAt).
		Where(sq.Eq{"id": article.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	return r.execAffectingOne(query, args, "update article")
}

func (r *ArticleRepo) SoftDelete(id string) error {
	query, args, err := sq.Update("articles").
		Set("deleted_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	return r.execAffectingOne(query, args, "delete article")
}

// Stats aggregates live articles. "Today" starts at local midnight of now.
func (r *ArticleRepo) Stats(now time.Time) (*ArticleStats, error) {
	local := now.In(time.Local)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local).UTC()

	stats := &ArticleStats{TypeCounts: make(map[string]int)}

	var avg sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		       AVG(quality_score),
		       COALESCE(SUM(word_count), 0)
		FROM articles
		WHERE deleted_at IS NULL
	`, startOfDay).Scan(&stats.TotalArticles, &stats.TodayArticles, &avg, &stats.TotalWords)
	if err != nil {
		return nil, fmt.Errorf("failed to get article stats: %w", err)
	}
	if avg.Valid {
		stats.AverageQuality = avg.Float64
	}

	rows, err := r.db.Query(`
		SELECT article_type, COUNT(*)
		FROM articles
		WHERE deleted_at IS NULL
		GROUP BY article_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get article type counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			articleType string
			count       int
		)
		if err := rows.Scan(&articleType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.TypeCounts[articleType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type counts: %w", err)
	}

	return stats, nil
}

func (r *ArticleRepo) selectBuilder() sq.SelectBuilder {
	return sq.Select(articleColumns...).From("articles").Where(sq.Eq{"deleted_at": nil})
}

func (r *ArticleRepo) query(builder sq.SelectBuilder) ([]Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var (
			a      Article
			scores string
		)
		err := rows.Scan(
			&a.ID, &a.Title, &a.Content, &a.Summary, &a.ArticleType, &a.WritingStyle,
			&a.SourceNewsID, &a.SourceNewsTitle, &a.SourceNewsURL, &a.Filename,
			&a.QualityScore, &a.QualityGrade, &scores, &a.WordCount, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &a.QualityScores); err != nil {
			return nil, fmt.Errorf("failed to decode quality scores: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *ArticleRepo) execAffectingOne(query string, args []any, action string) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeScores(scores map[string]float64) (string, error) {
	if scores == nil {
		scores = map[string]float64{}
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("failed to encode quality scores: %w", err)
	}
	return string(data), nil
}
