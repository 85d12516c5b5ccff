package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/feed"
)

const recentTitlesLimit = 500

type FetchSourceTask struct {
	Task
	Source *feed.SourceConfig
	deps   Dependencies
	now    func() time.Time
}

func NewFetchSourceTask(source *feed.SourceConfig, deps Dependencies) *FetchSourceTask {
	return &FetchSourceTask{
		Task:   NewTask(TaskTypeFetchSource, source.Name),
		Source: source,
		deps:   deps,
		now:    time.Now,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	stats, err := t.run(ctx)

	nextFetch := t.now().UTC().Add(time.Duration(t.Source.Settings.RefreshInterval) * time.Second)
	if recordErr := t.deps.SourceRepo.UpdateFetchResult(t.SourceName, nextFetch, err); recordErr != nil {
		slog.Error("Failed to record fetch result", "source", t.SourceName, "error", recordErr)
	}

	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", stats.total,
		"duplicates", stats.duplicates,
		"similar", stats.similar,
		"filtered", stats.filtered,
		"new", stats.stored-stats.filtered)

	return nil
}

type fetchStats struct {
	total      int
	duplicates int
	similar    int
	filtered   int
	stored     int
}

func (t *FetchSourceTask) run(ctx context.Context) (fetchStats, error) {
	var stats fetchStats

	timeout := time.Duration(t.Source.Settings.Timeout) * time.Second
	data, err := fetchURL(ctx, t.deps.HTTPClient, t.Source.URL, t.deps.UserAgent, timeout, false)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch source: %w", err)
	}

	metadata, items, err := t.deps.Parser.Run(data)
	if err != nil {
		return stats, fmt.Errorf("failed to parse source: %w", err)
	}

	if err := t.deps.SourceRepo.UpdateSourceMetadata(t.SourceName, metadata.Title, metadata.Link, metadata.Description, metadata.Language); err != nil {
		return stats, fmt.Errorf("failed to store source metadata: %w", err)
	}

	if limit := t.Source.Settings.MaxItems; limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	stats.total = len(items)

	fresh := make([]feed.Item, 0, len(items))
	for _, item := range items {
		isDuplicate, err := t.deps.NewsRepo.CheckDuplicate(item.ContentHash)
		if err != nil {
			return stats, fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if isDuplicate {
			stats.duplicates++
			continue
		}
		fresh = append(fresh, item)
	}

	distinct, err := t.dropSimilarTitles(fresh)
	if err != nil {
		return stats, err
	}
	stats.similar = len(fresh) - len(distinct)

	for i := range distinct {
		distinct[i].Language = cmp.Or(t.detectLanguage(distinct[i]), metadata.Language)
	}

	for _, item := range t.deps.Filterer.Run(distinct, t.Source) {
		if item.IsFiltered {
			stats.filtered++
		}

		if err := t.deps.NewsRepo.UpsertItem(t.SourceName, toNewsItemInput(item)); err != nil {
			return stats, fmt.Errorf("failed to store item: %w", err)
		}
		stats.stored++
	}

	return stats, nil
}

// dropSimilarTitles removes items whose titles nearly repeat an earlier
// item of the batch or a recently stored title from any source.
func (t *FetchSourceTask) dropSimilarTitles(items []feed.Item) ([]feed.Item, error) {
	if len(items) == 0 || t.deps.Deduplicator == nil {
		return items, nil
	}

	since := t.now().Add(-t.deps.MaxAge)
	recent, err := t.deps.NewsRepo.GetRecentItems(recentTitlesLimit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent titles: %w", err)
	}

	existing := make([]string, 0, len(recent))
	for _, r := range recent {
		existing = append(existing, r.Title)
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	kept := t.deps.Deduplicator.IndicesAgainst(titles, existing)
	result := make([]feed.Item, 0, len(kept))
	for _, i := range kept {
		result = append(result, items[i])
	}
	return result, nil
}

func (t *FetchSourceTask) detectLanguage(item feed.Item) string {
	if t.deps.Detector == nil {
		return ""
	}
	return t.deps.Detector.Detect(item.Title + " " + item.Summary)
}

func toNewsItemInput(item feed.Item) database.NewsItemInput {
	return database.NewsItemInput{
		GUID:         item.GUID,
		Title:        item.Title,
		Link:         item.Link,
		Summary:      item.Summary,
		Content:      item.Content,
		Language:     item.Language,
		PublishedAt:  item.PublishedAt,
		Authors:      item.Authors,
		Categories:   item.Categories,
		ContentHash:  item.ContentHash,
		IsFiltered:   item.IsFiltered,
		FilterReason: item.FilterReason,
	}
}
