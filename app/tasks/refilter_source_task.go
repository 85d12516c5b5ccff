package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-scribe/app/feed"
)

// RefilterSourceTask reapplies the current filters to every stored item
// of a source.
type RefilterSourceTask struct {
	Task
	Source *feed.SourceConfig
	deps   Dependencies
}

func NewRefilterSourceTask(source *feed.SourceConfig, deps Dependencies) *RefilterSourceTask {
	return &RefilterSourceTask{
		Task:   NewTask(TaskTypeRefilterSource, source.Name),
		Source: source,
		deps:   deps,
	}
}

func (t *RefilterSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.deps.NewsRepo.GetAllItems(t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to get source items: %w", err)
	}

	updatedCount := 0
	errorCount := 0

	for _, stored := range items {
		isFiltered, reason := t.deps.Filterer.Check(feed.Item{
			Title:      stored.Title,
			Link:       stored.Link,
			Summary:    stored.Summary,
			Content:    stored.Content,
			Authors:    stored.Authors,
			Categories: stored.Categories,
			Language:   stored.Language,
		}, t.Source.Filters)

		if stored.IsFiltered == isFiltered && stored.FilterReason == reason {
			continue
		}

		if err := t.deps.NewsRepo.UpdateItemFilterStatus(stored.ID, isFiltered, reason); err != nil {
			slog.Error("Failed to update item filter status", "item_id", stored.ID, "error", err)
			errorCount++
			continue
		}
		updatedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", updatedCount,
		"errors", errorCount)

	return nil
}
