package database

import (
	"time"
)

type SourceRepository interface {
	GetSource(name string) (*Source, error)
	ListSources() ([]Source, error)
	GetSourceCount() (int, error)

	UpsertSource(name, url string, priority int) error
	UpdateSourceMetadata(name, title, link, description, language string) error
	UpdateFetchResult(name string, nextFetch time.Time, fetchErr error) error
}

type NewsRepository interface {
	GetItem(id string) (*NewsItem, error)
	GetRecentItems(limit int, since time.Time) ([]NewsItem, error)
	GetAllItems(sourceName string) ([]NewsItem, error)
	GetItemCount(sourceName string) (int, error)

	UpsertItem(sourceName string, item NewsItemInput) error
	UpdateItemFilterStatus(itemID string, isFiltered bool, reason string) error

	CheckDuplicate(contentHash string) (bool, error)

	GetItemsForExtraction(sourceName string, limit int) ([]ItemForExtraction, error)
	UpdateExtractedContent(itemID, content, status, errMsg string) error
}

type ArticleRepository interface {
	Create(article *Article) error
	Get(id string) (*Article, error)
	List(filter ArticleFilter) ([]Article, error)
	Update(article *Article) error
	SoftDelete(id string) error
	Stats(now time.Time) (*ArticleStats, error)
}
