package database

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type Source struct {
	ID            string
	Name          string // Configuration identifier derived from filename
	URL           string
	Priority      int
	Title         string
	Link          string
	Description   string
	Language      string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	FetchCount    int
	ErrorCount    int
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewsItemInput is a parsed feed entry ready to be stored.
type NewsItemInput struct {
	GUID         string
	Title        string
	Link         string
	Summary      string
	Content      string
	Language     string
	PublishedAt  time.Time
	Authors      []string
	Categories   []string
	ContentHash  string
	IsFiltered   bool
	FilterReason string
}

type NewsItem struct {
	ID                      string
	SourceID                string
	SourceName              string
	GUID                    string
	Link                    string
	Title                   string
	Summary                 string
	Content                 string
	Language                string
	PublishedAt             time.Time
	Authors                 []string
	Categories              []string
	ContentHash             string
	IsFiltered              bool
	FilterReason            string
	ContentExtractionStatus string // pending, success, failed
	ContentExtractedAt      *time.Time
	CreatedAt               time.Time
}

type ItemForExtraction struct {
	ID   string
	Link string
}

const (
	ExtractionPending = "pending"
	ExtractionSuccess = "success"
	ExtractionFailed  = "failed"
)

type Article struct {
	ID              string
	Title           string
	Content         string
	Summary         string
	ArticleType     string
	WritingStyle    string
	SourceNewsID    string
	SourceNewsTitle string
	SourceNewsURL   string
	Filename        string
	QualityScore    float64
	QualityGrade    string
	QualityScores   map[string]float64
	WordCount       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ArticleFilter narrows List results. Zero values mean "any".
type ArticleFilter struct {
	Type     string
	Grade    string
	MinScore float64
	Limit    int
	Offset   int
}

type ArticleStats struct {
	TotalArticles  int            `json:"total_articles"`
	TodayArticles  int            `json:"today_articles"`
	AverageQuality float64        `json:"average_quality"`
	TotalWords     int            `json:"total_words"`
	TypeCounts     map[string]int `json:"type_distribution"`
}
