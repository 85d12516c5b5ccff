package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-scribe/app/feed"
)

type SyncSourceConfigTask struct {
	Task
	Source *feed.SourceConfig
	deps   Dependencies
}

func NewSyncSourceConfigTask(source *feed.SourceConfig, deps Dependencies) *SyncSourceConfigTask {
	return &SyncSourceConfigTask{
		Task:   NewTask(TaskTypeSyncSourceConfig, source.Name),
		Source: source,
		deps:   deps,
	}
}

func (t *SyncSourceConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.deps.SourceRepo.UpsertSource(t.Source.Name, t.Source.URL, t.Source.Priority); err != nil {
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration())

	return nil
}
