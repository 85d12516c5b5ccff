package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-scribe/app/cfg"
	"github.com/lysyi3m/rss-scribe/app/feed"
)

const (
	queueSize   = 300
	taskTimeout = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceCache *feed.SourceCache
	deps        Dependencies
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(sourceCache *feed.SourceCache, deps Dependencies) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache: sourceCache,
		deps:        deps,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// ReloadSource rereads a source file, then queues a database sync and a
// refilter of its stored items.
func (s *Scheduler) ReloadSource(name string) error {
	source, err := s.sourceCache.Load(name)
	if err != nil {
		return fmt.Errorf("failed to reload source %s: %w", name, err)
	}

	if err := s.EnqueueTask(NewSyncSourceConfigTask(source, s.deps)); err != nil {
		return fmt.Errorf("failed to enqueue sync task: %w", err)
	}
	if err := s.EnqueueTask(NewRefilterSourceTask(source, s.deps)); err != nil {
		return fmt.Errorf("failed to enqueue refilter task: %w", err)
	}
	return nil
}

// enqueueStartupTasks syncs every source row before its first fetch so
// items always have a parent row.
func (s *Scheduler) enqueueStartupTasks() {
	sources := s.sourceCache.List()
	if len(sources) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sources))

	for _, source := range sources {
		syncTask := NewSyncSourceConfigTask(source, s.deps)
		syncTask.Start()
		if err := syncTask.Execute(s.ctx); err != nil {
			slog.Warn("Failed to sync source config", "source", source.Name, "error", err)
			continue
		}

		if !source.Settings.Enabled {
			slog.Debug("Source disabled, skipping FetchSourceTask", "source", source.Name)
			continue
		}

		if err := s.EnqueueTask(NewFetchSourceTask(source, s.deps)); err != nil {
			slog.Warn("Failed to enqueue FetchSourceTask", "source", source.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sources := s.sourceCache.Enabled()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	now := time.Now().UTC()
	for _, source := range sources {
		row, err := s.deps.SourceRepo.GetSource(source.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", source.Name, "error", err)
			continue
		}
		if row == nil {
			slog.Warn("Source not found in database, skipping", "source", source.Name)
			continue
		}

		if row.NextFetchAt != nil && row.NextFetchAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", source.Name, "next_fetch_at", row.NextFetchAt)
		} else if err := s.EnqueueTask(NewFetchSourceTask(source, s.deps)); err != nil {
			slog.Warn("Failed to enqueue FetchSourceTask", "source", source.Name, "error", err)
		}

		if source.Settings.ExtractContent {
			if err := s.EnqueueTask(NewExtractContentTask(source, s.deps)); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "source", source.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-time.After(delay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
