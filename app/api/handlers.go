package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-scribe/app/analysis"
	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/dedup"
	"github.com/lysyi3m/rss-scribe/app/quality"
)

const (
	defaultNewsLimit = 20
	maxNewsLimit     = 100
	topicsNewsLimit  = 50
	topicsCount      = 10
	feedArticleLimit = 50
)

func NewHandler(s Services) *Handler {
	return &Handler{
		sourceCache:  s.SourceCache,
		sourceRepo:   s.SourceRepo,
		newsRepo:     s.NewsRepo,
		articleRepo:  s.ArticleRepo,
		files:        s.Files,
		generator:    s.Generator,
		deduplicator: s.Deduplicator,
		scorer:       s.Scorer,
		analyzer:     s.Analyzer,
		writer:       s.Writer,
		scheduler:    s.Scheduler,
		newsMaxAge:   s.NewsMaxAge,
		now:          time.Now,
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.sourceCache.Count()

	c.JSON(http.StatusOK, health)
}

// GetArticlesFeed serves the generated articles as RSS.
func (h *Handler) GetArticlesFeed(c *gin.Context) {
	articles, err := h.articleRepo.List(database.ArticleFilter{Limit: feedArticleLimit})
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(articles)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	if len(articles) > 0 {
		c.Header("X-Last-Updated", articles[0].CreatedAt.In(time.Local).Format(time.RFC3339))
	}

	c.String(http.StatusOK, rss)
}

// recentNews returns up to limit visible items within the news age window
// with near-duplicate titles removed.
func (h *Handler) recentNews(limit int) ([]database.NewsItem, error) {
	items, err := h.newsRepo.GetRecentItems(limit*2, h.now().Add(-h.newsMaxAge))
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	result := make([]database.NewsItem, 0, limit)
	for _, i := range h.deduplicator.Indices(titles) {
		if len(result) == limit {
			break
		}
		result = append(result, items[i])
	}
	return result, nil
}

func (h *Handler) APIGetNews(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit)))
	if err != nil || limit <= 0 {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxNewsLimit)

	items, err := h.recentNews(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_items", "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	var stats timeStats
	news := make([]newsResponse, 0, len(items))
	for _, item := range items {
		switch days := int(now.Sub(item.PublishedAt).Hours() / 24); {
		case days <= 0:
			stats.Today++
		case days == 1:
			stats.Yesterday++
		default:
			stats.Older++
		}
		news = append(news, toNewsResponse(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         news,
		"count":        len(news),
		"time_stats":   stats,
		"max_age_days": int(h.newsMaxAge.Hours() / 24),
	})
}

func (h *Handler) APIGetTopics(c *gin.Context) {
	items, err := h.recentNews(topicsNewsLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_items", "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	inputs := make([]analysis.NewsInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, analysis.NewsInput{Title: item.Title, Summary: item.Summary})
	}

	respondOK(c, h.analyzer.TrendingTopics(inputs, topicsCount))
}

func (h *Handler) APIAssessQuality(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	var source *quality.Source
	if req.SourceContent != "" || req.SourceSummary != "" {
		source = &quality.Source{Content: req.SourceContent, Summary: req.SourceSummary}
	}

	respondOK(c, h.scorer.Assess(req.Content, source))
}

func (h *Handler) APIDeduplicate(c *gin.Context) {
	var req dedupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	d := h.deduplicator
	if req.Threshold != nil {
		if *req.Threshold <= 0 || *req.Threshold > 1 {
			respondError(c, http.StatusBadRequest, "threshold must be in (0, 1]")
			return
		}
		d = dedup.NewDeduplicator(*req.Threshold, h.deduplicator.Segmenter)
	}

	kept := d.Run(req.Items)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    kept,
		"total":   len(req.Items),
		"removed": len(req.Items) - len(kept),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sourceCache.List()

	result := make([]map[string]interface{}, 0, len(sources))

	for _, source := range sources {
		info := map[string]interface{}{
			"name":             source.Name,
			"url":              source.URL,
			"title":            "",
			"priority":         source.Priority,
			"enabled":          source.Settings.Enabled,
			"max_items":        source.Settings.MaxItems,
			"refresh_interval": (time.Duration(source.Settings.RefreshInterval) * time.Second).String(),
			"extract_content":  source.Settings.ExtractContent,
			"filters":          len(source.Filters),
		}

		if row, err := h.sourceRepo.GetSource(source.Name); err == nil && row != nil {
			info["title"] = row.Title
			info["language"] = row.Language
			info["last_fetched_at"] = row.LastFetchedAt
			info["next_fetch_at"] = row.NextFetchAt
			info["fetch_count"] = row.FetchCount
			info["error_count"] = row.ErrorCount
			info["last_error"] = row.LastError
		}

		if itemCount, err := h.newsRepo.GetItemCount(source.Name); err == nil {
			info["item_count"] = itemCount
		}

		result = append(result, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"total":   len(result),
	})
}

func (h *Handler) APIReloadSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, `/\.`) {
		respondError(c, http.StatusBadRequest, "Invalid source name")
		return
	}

	if err := h.scheduler.ReloadSource(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(c, http.StatusNotFound, "Source configuration not found")
			return
		}
		slog.Error("Error reloading source", "source", name, "error", err)
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"data":    gin.H{"name": name},
	})
}
