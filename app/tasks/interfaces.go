package tasks

import (
	"net/http"
	"time"

	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/dedup"
	"github.com/lysyi3m/rss-scribe/app/feed"
)

// TaskSchedulerInterface is what the application and API use to drive
// background work.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	ReloadSource(name string) error
}

// LanguageDetector reports an ISO 639-1 code or "".
type LanguageDetector interface {
	Detect(text string) string
}

// Dependencies are the collaborators shared by all tasks.
type Dependencies struct {
	SourceRepo       database.SourceRepository
	NewsRepo         database.NewsRepository
	HTTPClient       *http.Client
	Parser           *feed.Parser
	Filterer         *feed.Filterer
	ContentExtractor *feed.ContentExtractor
	Deduplicator     *dedup.Deduplicator
	Detector         LanguageDetector // optional
	UserAgent        string
	MaxAge           time.Duration // window of stored titles used for dedup
}
