package api

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-scribe/app/analysis"
	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/dedup"
	"github.com/lysyi3m/rss-scribe/app/feed"
	"github.com/lysyi3m/rss-scribe/app/quality"
	"github.com/lysyi3m/rss-scribe/app/storage"
	"github.com/lysyi3m/rss-scribe/app/tasks"
	"github.com/lysyi3m/rss-scribe/app/writer"
)

type GeneratorInterface interface {
	Run(articles []database.Article) (string, error)
}

type ArticleWriter interface {
	Write(ctx context.Context, news *writer.NewsData, articleType, style string) (*writer.Result, error)
}

type ArticleFileStore interface {
	List() ([]storage.FileInfo, error)
	Read(name string) (string, error)
	Update(name, body string) error
	Delete(name string) error
	Path(name string) (string, error)
}

var (
	_ GeneratorInterface = (*feed.Generator)(nil)
	_ ArticleWriter      = (*writer.Writer)(nil)
	_ ArticleFileStore   = (*storage.FileStore)(nil)
)

// Services are the collaborators the HTTP handlers need.
type Services struct {
	SourceCache  *feed.SourceCache
	SourceRepo   database.SourceRepository
	NewsRepo     database.NewsRepository
	ArticleRepo  database.ArticleRepository
	Files        ArticleFileStore
	Generator    GeneratorInterface
	Deduplicator *dedup.Deduplicator
	Scorer       *quality.Scorer
	Analyzer     *analysis.Analyzer
	Writer       ArticleWriter
	Scheduler    tasks.TaskSchedulerInterface
	NewsMaxAge   time.Duration
}

type Handler struct {
	sourceCache  *feed.SourceCache
	sourceRepo   database.SourceRepository
	newsRepo     database.NewsRepository
	articleRepo  database.ArticleRepository
	files        ArticleFileStore
	generator    GeneratorInterface
	deduplicator *dedup.Deduplicator
	scorer       *quality.Scorer
	analyzer     *analysis.Analyzer
	writer       ArticleWriter
	scheduler    tasks.TaskSchedulerInterface
	newsMaxAge   time.Duration
	now          func() time.Time
}

type assessRequest struct {
	Content       string `json:"content"`
	SourceContent string `json:"source_content"`
	SourceSummary string `json:"source_summary"`
}

type dedupRequest struct {
	Items     []dedup.CandidateItem `json:"items"`
	Threshold *float64              `json:"threshold"`
}

type writeArticleRequest struct {
	NewsID      string `json:"news_id"`
	ArticleType string `json:"article_type"`
	Style       string `json:"style"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type newsResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Language    string    `json:"language,omitempty"`
	Categories  []string  `json:"categories"`
	PublishedAt time.Time `json:"publish_time"`
}

type timeStats struct {
	Today     int `json:"today"`
	Yesterday int `json:"yesterday"`
	Older     int `json:"older"`
}

type articleResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Content         string             `json:"content,omitempty"`
	Summary         string             `json:"summary"`
	ArticleType     string             `json:"article_type"`
	WritingStyle    string             `json:"writing_style"`
	SourceNewsID    string             `json:"source_news_id,omitempty"`
	SourceNewsTitle string             `json:"source_news_title,omitempty"`
	SourceNewsURL   string             `json:"source_news_url,omitempty"`
	Filename        string             `json:"filename,omitempty"`
	QualityScore    float64            `json:"quality_score"`
	QualityGrade    string             `json:"quality_grade"`
	QualityScores   map[string]float64 `json:"quality_scores,omitempty"`
	WordCount       int                `json:"word_count"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func toNewsResponse(item database.NewsItem) newsResponse {
	return newsResponse{
		ID:          item.ID,
		Title:       item.Title,
		Summary:     item.Summary,
		Link:        item.Link,
		Source:      item.SourceName,
		Language:    item.Language,
		Categories:  item.Categories,
		PublishedAt: item.PublishedAt.In(time.Local),
	}
}

// toArticleResponse omits the body unless withContent is set, which keeps
// listings small.
func toArticleResponse(a database.Article, withContent bool) articleResponse {
	resp := articleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Summary:         a.Summary,
		ArticleType:     a.ArticleType,
		WritingStyle:    a.WritingStyle,
		SourceNewsID:    a.SourceNewsID,
		SourceNewsTitle: a.SourceNewsTitle,
		SourceNewsURL:   a.SourceNewsURL,
		Filename:        a.Filename,
		QualityScore:    a.QualityScore,
		QualityGrade:    a.QualityGrade,
		QualityScores:   a.QualityScores,
		WordCount:       a.WordCount,
		CreatedAt:       a.CreatedAt.In(time.Local),
		UpdatedAt:       a.UpdatedAt.In(time.Local),
	}
	if withContent {
		resp.Content = a.Content
	}
	return resp
}
