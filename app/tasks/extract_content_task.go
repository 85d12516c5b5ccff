package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/feed"
)

type ExtractContentTask struct {
	Task
	Source *feed.SourceConfig
	deps   Dependencies
}

func NewExtractContentTask(source *feed.SourceConfig, deps Dependencies) *ExtractContentTask {
	return &ExtractContentTask{
		Task:   NewTask(TaskTypeExtractContent, source.Name),
		Source: source,
		deps:   deps,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.SourceName)
		return nil
	}

	items, err := t.deps.NewsRepo.GetItemsForExtraction(t.SourceName, t.Source.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get items for content extraction: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No items need content extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content, err := t.extract(ctx, item)
		if err != nil {
			slog.Warn("Failed to extract content for item", "item_id", item.ID, "url", item.Link, "error", err)
			errorCount++

			if err := t.deps.NewsRepo.UpdateExtractedContent(item.ID, "", database.ExtractionFailed, err.Error()); err != nil {
				slog.Error("Failed to update content extraction status", "item_id", item.ID, "error", err)
			}
			continue
		}

		if err := t.deps.NewsRepo.UpdateExtractedContent(item.ID, content, database.ExtractionSuccess, ""); err != nil {
			return fmt.Errorf("failed to store extracted content: %w", err)
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extract(ctx context.Context, item database.ItemForExtraction) (string, error) {
	if item.Link == "" {
		return "", fmt.Errorf("item has no link")
	}

	timeout := time.Duration(t.Source.Settings.Timeout) * time.Second
	data, err := fetchURL(ctx, t.deps.HTTPClient, item.Link, t.deps.UserAgent, timeout, true)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.deps.ContentExtractor.Run(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	return content, nil
}
