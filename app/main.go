package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-scribe/app/analysis"
	"github.com/lysyi3m/rss-scribe/app/api"
	"github.com/lysyi3m/rss-scribe/app/cfg"
	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/dedup"
	"github.com/lysyi3m/rss-scribe/app/feed"
	"github.com/lysyi3m/rss-scribe/app/nlp"
	"github.com/lysyi3m/rss-scribe/app/quality"
	"github.com/lysyi3m/rss-scribe/app/storage"
	"github.com/lysyi3m/rss-scribe/app/tasks"
	"github.com/lysyi3m/rss-scribe/app/writer"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting RSS Scribe", "version", appCfg.Version, "port", appCfg.Port)

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", db.Path(), "migration_version", version, "dirty", dirty)

	sourceRepo := database.NewSourceRepository(db)
	newsRepo := database.NewNewsRepository(db)
	articleRepo := database.NewArticleRepository(db)

	vocab, err := nlp.LoadVocabulary(appCfg.VocabularyFile)
	if err != nil {
		return err
	}

	tools := loadTextTools(appCfg.DictPath, nlp.NewGseSegmenter)

	deduplicator := dedup.NewDeduplicator(appCfg.DedupThreshold, tools.segmenter)

	scorerCfg := quality.DefaultConfig()
	scorerCfg.LengthMin = appCfg.ArticleMinLength
	scorerCfg.LengthMax = appCfg.ArticleMaxLength
	scorerCfg.Vocabulary = vocab
	scorer, err := quality.NewScorer(scorerCfg, tools.scorerSegmenter)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzer(vocab, tools.segmenter, tools.tagger)
	if err != nil {
		return err
	}

	sourceCache := feed.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		return fmt.Errorf("failed to load source configurations: %w", err)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.Count(), "dir", appCfg.SourcesDir)

	files, err := storage.NewFileStore(appCfg.ArticlesDir)
	if err != nil {
		return err
	}

	templates, err := writer.LoadTemplates(appCfg.TemplatesFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completer, err := writer.NewCompleter(ctx, appCfg)
	if err != nil {
		return err
	}
	if completer == nil {
		slog.Warn("AI completion disabled, articles use built-in templates")
	} else {
		slog.Info("AI completion enabled", "provider", appCfg.AIProvider)
	}
	if closer, ok := completer.(interface{ Close() }); ok {
		defer closer.Close()
	}

	articleWriter := writer.New(analyzer, scorer, completer, files, articleRepo, writer.Options{
		Templates:        templates,
		ImproveThreshold: appCfg.ImproveThreshold,
		MaxTokens:        appCfg.OpenAIMaxTokens,
		Temperature:      appCfg.OpenAITemperature,
	})

	newsMaxAge := time.Duration(appCfg.NewsMaxAgeDays) * 24 * time.Hour

	scheduler := tasks.NewScheduler(sourceCache, tasks.Dependencies{
		SourceRepo:       sourceRepo,
		NewsRepo:         newsRepo,
		HTTPClient:       &http.Client{},
		Parser:           feed.NewParser(),
		Filterer:         feed.NewFilterer(tools.segmenter),
		ContentExtractor: feed.NewContentExtractor(),
		Deduplicator:     deduplicator,
		Detector:         nlp.NewLanguageDetector(),
		UserAgent:        appCfg.UserAgent,
		MaxAge:           newsMaxAge,
	})
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(api.Services{
		SourceCache:  sourceCache,
		SourceRepo:   sourceRepo,
		NewsRepo:     newsRepo,
		ArticleRepo:  articleRepo,
		Files:        files,
		Generator:    feed.NewGenerator(),
		Deduplicator: deduplicator,
		Scorer:       scorer,
		Analyzer:     analyzer,
		Writer:       articleWriter,
		Scheduler:    scheduler,
		NewsMaxAge:   newsMaxAge,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // article drafting waits on the AI provider
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return runErr
}

type textTools struct {
	segmenter nlp.Segmenter
	// nil without a dictionary so the scorer applies its degraded defaults
	scorerSegmenter nlp.Segmenter
	tagger          nlp.Tagger
}

// loadTextTools falls back to rune segmentation for dedup, filtering and
// analysis when the dictionary cannot be loaded.
func loadTextTools(dictPath string, load func(string) (*nlp.GseSegmenter, error)) textTools {
	gseSeg, err := load(dictPath)
	if err != nil {
		slog.Warn("Segmentation dictionary unavailable, using rune segmenter", "error", err)
		return textTools{segmenter: nlp.FallbackSegmenter{}}
	}
	return textTools{segmenter: gseSeg, scorerSegmenter: gseSeg, tagger: gseSeg}
}
