package api

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/quality"
	"github.com/lysyi3m/rss-scribe/app/storage"
	"github.com/lysyi3m/rss-scribe/app/writer"
)

const defaultWritingStyle = "professional"

func (h *Handler) APIListArticles(c *gin.Context) {
	filter := database.ArticleFilter{
		Type:  c.Query("type"),
		Grade: c.Query("grade"),
	}

	ints := map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset}
	for key, dst := range ints {
		if raw := c.Query(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				respondError(c, http.StatusBadRequest, key+" must be a non-negative integer")
				return
			}
			*dst = v
		}
	}

	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "min_score must be a number")
			return
		}
		filter.MinScore = v
	}

	articles, err := h.articleRepo.List(filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	result := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		result = append(result, toArticleResponse(a, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"count":   len(result),
	})
}

func (h *Handler) APIGetArticle(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}
	respondOK(c, toArticleResponse(*article, true))
}

// APIUpdateArticle replaces the article body and scores it again against
// its source news when that is still stored.
func (h *Handler) APIUpdateArticle(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	var source *quality.Source
	if article.SourceNewsID != "" {
		if news, err := h.newsRepo.GetItem(article.SourceNewsID); err == nil && news != nil {
			source = &quality.Source{Content: news.Content, Summary: news.Summary}
		}
	}

	result := h.scorer.Assess(req.Content, source)

	article.Content = req.Content
	article.WordCount = writer.CountWords(req.Content)
	article.QualityScore = result.TotalScore
	article.QualityGrade = string(result.Grade)
	article.QualityScores = result.Scores

	if err := h.articleRepo.Update(article); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Article not found")
			return
		}
		slog.Error("Database error", "operation", "update_article", "id", article.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	respondOK(c, gin.H{
		"article": toArticleResponse(*article, true),
		"quality": result,
	})
}

// APIDeleteArticle soft-deletes the row and removes the markdown file.
func (h *Handler) APIDeleteArticle(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	if err := h.articleRepo.SoftDelete(article.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Article not found")
			return
		}
		slog.Error("Database error", "operation", "delete_article", "id", article.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if article.Filename != "" {
		if err := h.files.Delete(article.Filename); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Failed to delete article file", "id", article.ID, "filename", article.Filename, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Article deleted",
	})
}

func (h *Handler) loadArticle(c *gin.Context) (*database.Article, bool) {
	article, err := h.articleRepo.Get(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Article not found")
		return nil, false
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return article, true
}

func (h *Handler) APIWriteArticle(c *gin.Context) {
	var req writeArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.NewsID == "" {
		respondError(c, http.StatusBadRequest, "news_id is required")
		return
	}

	item, err := h.newsRepo.GetItem(req.NewsID)
	if err != nil {
		slog.Error("Database error", "operation", "get_item", "id", req.NewsID, "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if item == nil {
		respondError(c, http.StatusNotFound, "News item not found: "+req.NewsID)
		return
	}

	result, err := h.writer.Write(c.Request.Context(), writer.NewsFromItem(item), req.ArticleType, cmp.Or(req.Style, defaultWritingStyle))
	if err != nil {
		if errors.Is(err, writer.ErrInvalidNews) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Article generation failed", "news_id", req.NewsID, "error", err)
		respondError(c, http.StatusInternalServerError, "Article generation failed")
		return
	}

	respondOK(c, result)
}

func (h *Handler) APIGetStats(c *gin.Context) {
	stats, err := h.articleRepo.Stats(h.now())
	if err != nil {
		slog.Error("Database error", "operation", "article_stats", "error", err)
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	respondOK(c, stats)
}
