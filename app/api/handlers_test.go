package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-scribe/app/analysis"
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

const testAPIKey = "secret"

type fakeScheduler struct {
	reloaded []string
	err      error
}

func (f *fakeScheduler) Start()                                {}
func (f *fakeScheduler) Stop()                                 {}
func (f *fakeScheduler) EnqueueTask(tasks.TaskInterface) error { return nil }
func (f *fakeScheduler) ReloadSource(name string) error {
	f.reloaded = append(f.reloaded, name)
	return f.err
}

type fakeWriter struct {
	calls []writeCall
}

type writeCall struct {
	news        *writer.NewsData
	articleType string
	style       string
}

func (f *fakeWriter) Write(_ context.Context, news *writer.NewsData, articleType, style string) (*writer.Result, error) {
	f.calls = append(f.calls, writeCall{news: news, articleType: articleType, style: style})
	return &writer.Result{
		Title:       "快讯：" + news.Title,
		Content:     "正文",
		Article:     "# 快讯：" + news.Title + "\n\n正文",
		ArticleType: writer.DefaultArticleType,
		Style:       style,
	}, nil
}

type testServer struct {
	router      *gin.Engine
	sourceRepo  *database.SourceRepo
	newsRepo    *database.NewsRepo
	articleRepo *database.ArticleRepo
	files       *storage.FileStore
	scheduler   *fakeScheduler
	writer      *fakeWriter
}

func setupTestServer(t *testing.T, apiKey string) *testServer {
	t.Helper()

	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()
	if _, err := cfg.Load(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}

	seg := nlp.FallbackSegmenter{}
	analyzer, err := analysis.NewAnalyzer(nlp.DefaultVocabulary(), seg, nil)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(dir+"/wire.yml", []byte("url: \"https://wire.example.com/rss\"\nsettings:\n  enabled: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
	sourceCache := feed.NewSourceCache(dir)
	if err := sourceCache.Run(); err != nil {
		t.Fatalf("Failed to load sources: %v", err)
	}

	ts := &testServer{
		sourceRepo:  database.NewSourceRepository(db),
		newsRepo:    database.NewNewsRepository(db),
		articleRepo: database.NewArticleRepository(db),
		files:       files,
		scheduler:   &fakeScheduler{},
		writer:      &fakeWriter{},
	}

	if err := ts.sourceRepo.UpsertSource("wire", "https://wire.example.com/rss", 3); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	handler := NewHandler(Services{
		SourceCache:  sourceCache,
		SourceRepo:   ts.sourceRepo,
		NewsRepo:     ts.newsRepo,
		ArticleRepo:  ts.articleRepo,
		Files:        files,
		Generator:    feed.NewGenerator(),
		Deduplicator: dedup.NewDeduplicator(0.7, seg),
		Scorer:       quality.NewDefaultScorer(seg),
		Analyzer:     analyzer,
		Writer:       ts.writer,
		Scheduler:    ts.scheduler,
		NewsMaxAge:   7 * 24 * time.Hour,
	})
	ts.router = NewServer(handler, apiKey)

	return ts
}

func (ts *testServer) addNews(t *testing.T, title string, age time.Duration) string {
	t.Helper()
	link := "https://wire.example.com/" + fmt.Sprint(len(title)) + "-" + fmt.Sprint(age)
	err := ts.newsRepo.UpsertItem("wire", database.NewsItemInput{
		GUID:        link,
		Title:       title,
		Link:        link,
		Summary:     title + " summary",
		PublishedAt: time.Now().Add(-age).UTC(),
		ContentHash: feed.ContentHash(title, link),
	})
	if err != nil {
		t.Fatalf("Failed to store news: %v", err)
	}

	items, err := ts.newsRepo.GetAllItems("wire")
	if err != nil {
		t.Fatalf("Failed to load news: %v", err)
	}
	for _, item := range items {
		if item.Title == title {
			return item.ID
		}
	}
	t.Fatalf("Stored news %q not found", title)
	return ""
}

func (ts *testServer) do(method, path string, body any, key string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Count     int             `json:"count"`
	TimeStats timeStats       `json:"time_stats"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	w := ts.do(http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	if health["sources"] != float64(1) {
		t.Errorf("Expected 1 source, got %v", health["sources"])
	}
	if health["loaded_configurations"] != float64(1) {
		t.Errorf("Expected 1 loaded configuration, got %v", health["loaded_configurations"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	tests := []struct {
		name     string
		header   string
		value    string
		expected int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"header key", "X-API-Key", testAPIKey, http.StatusOK},
		{"bearer token", "Authorization", "Bearer " + testAPIKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestProtectedRoutesDisabledWithoutKey(t *testing.T) {
	ts := setupTestServer(t, "")

	if w := ts.do(http.MethodGet, "/api/articles", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without API key configured, got %d", w.Code)
	}
	if w := ts.do(http.MethodGet, "/api/news", nil, ""); w.Code != http.StatusOK {
		t.Errorf("Expected public news endpoint to stay available, got %d", w.Code)
	}
}

func TestRootAndCORS(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	w := ts.do(http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "RSS Scribe") {
		t.Errorf("Expected service info, got %d %s", w.Code, w.Body.String())
	}

	w = ts.do(http.MethodOptions, "/api/news", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on preflight")
	}
}

func TestAssessQuality(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	w := ts.do(http.MethodPost, "/api/quality/assess", map[string]string{"content": "   "}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty content, got %d", w.Code)
	}

	article := "# 标题\n\n第一段。据新华社报道，市场增长10%。\n\n## 背景\n\n第二段，专家分析了数据。\n\n- 要点一\n- 要点二\n- 要点三"
	w = ts.do(http.MethodPost, "/api/quality/assess", map[string]string{
		"content":        article,
		"source_content": "完全不同的原始内容",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	env := decode(t, w)
	var result quality.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if len(result.Scores) != 5 {
		t.Errorf("Expected 5 metric scores, got %d", len(result.Scores))
	}
	if result.Grade != quality.GradeFor(result.TotalScore) {
		t.Errorf("Expected grade %s for total %v, got %s", quality.GradeFor(result.TotalScore), result.TotalScore, result.Grade)
	}
}

func TestDeduplicate(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	body := map[string]interface{}{
		"items": []map[string]string{
			{"title": "Apple launches new phone", "source_id": "a"},
			{"title": "Apple launches new phone!", "source_id": "b"},
			{"title": "Heavy rain expected tomorrow", "source_id": "c"},
		},
	}

	w := ts.do(http.MethodPost, "/api/dedup", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var kept []dedup.CandidateItem
	if err := json.Unmarshal(decode(t, w).Data, &kept); err != nil {
		t.Fatalf("Failed to decode items: %v", err)
	}
	if len(kept) != 2 || kept[0].SourceID != "a" || kept[1].SourceID != "c" {
		t.Errorf("Expected items a and c, got %+v", kept)
	}

	body["threshold"] = 1.5
	if w := ts.do(http.MethodPost, "/api/dedup", body, ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid threshold, got %d", w.Code)
	}
}

func TestGetNews(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	ts.addNews(t, "Storm closes airports across the north", time.Hour)
	ts.addNews(t, "Storm closes airports across the north!", 2*time.Hour)
	ts.addNews(t, "Local elections draw record turnout", 30*time.Hour)
	ts.addNews(t, "Stale story from last month", 30*24*time.Hour)

	w := ts.do(http.MethodGet, "/api/news?limit=10", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	env := decode(t, w)
	if env.Count != 2 {
		t.Errorf("Expected 2 news items, got %d", env.Count)
	}
	if env.TimeStats.Today != 1 || env.TimeStats.Yesterday != 1 || env.TimeStats.Older != 0 {
		t.Errorf("Expected time stats {1 1 0}, got %+v", env.TimeStats)
	}

	if w := ts.do(http.MethodGet, "/api/news?limit=abc", nil, ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid limit, got %d", w.Code)
	}
}

func TestGetTopics(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	ts.addNews(t, "Election results announced", time.Hour)
	ts.addNews(t, "Election turnout hits record", 2*time.Hour)

	w := ts.do(http.MethodGet, "/api/topics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var topics []analysis.Topic
	if err := json.Unmarshal(decode(t, w).Data, &topics); err != nil {
		t.Fatalf("Failed to decode topics: %v", err)
	}
	// Each title repeats in its summary.
	if len(topics) == 0 || topics[0].Word != "Election" || topics[0].Count != 4 {
		t.Errorf("Expected 'Election' as top topic, got %+v", topics)
	}
}

func TestArticleEndpoints(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	filename, err := ts.files.Save("芯片产业", "# 芯片产业\n\n正文")
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}
	article := &database.Article{
		Title:        "芯片产业",
		Content:      "正文",
		ArticleType:  "analysis",
		QualityScore: 0.5,
		QualityGrade: "C+",
		Filename:     filename,
	}
	if err := ts.articleRepo.Create(article); err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	w := ts.do(http.MethodGet, "/api/articles?type=analysis", nil, testAPIKey)
	if w.Code != http.StatusOK || decode(t, w).Count != 1 {
		t.Errorf("Expected one listed article, got %d %s", w.Code, w.Body.String())
	}
	if w := ts.do(http.MethodGet, "/api/articles?limit=-1", nil, testAPIKey); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for negative limit, got %d", w.Code)
	}

	w = ts.do(http.MethodGet, "/api/articles/"+article.ID, nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got articleResponse
	if err := json.Unmarshal(decode(t, w).Data, &got); err != nil {
		t.Fatalf("Failed to decode article: %v", err)
	}
	if got.Content != "正文" {
		t.Errorf("Expected content '正文', got %q", got.Content)
	}

	updated := "# 芯片产业\n\n据报道，市场增长20%。\n\n## 分析\n\n专家认为趋势向好。"
	w = ts.do(http.MethodPut, "/api/articles/"+article.ID, map[string]string{"content": updated}, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	stored, err := ts.articleRepo.Get(article.ID)
	if err != nil {
		t.Fatalf("Failed to reload article: %v", err)
	}
	if stored.Content != updated || stored.WordCount == 0 || len(stored.QualityScores) != 5 {
		t.Errorf("Expected updated content and scores, got %+v", stored)
	}

	if w := ts.do(http.MethodPut, "/api/articles/"+article.ID, map[string]string{"content": ""}, testAPIKey); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty content, got %d", w.Code)
	}

	w = ts.do(http.MethodDelete, "/api/articles/"+article.ID, nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if _, err := ts.files.Read(filename); err != storage.ErrNotFound {
		t.Errorf("Expected article file to be removed, got %v", err)
	}
	if w := ts.do(http.MethodGet, "/api/articles/"+article.ID, nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
	if w := ts.do(http.MethodDelete, "/api/articles/"+article.ID, nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for second delete, got %d", w.Code)
	}
}

func TestFileEndpoints(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	filename, err := ts.files.Save("Market update", "# Market update\n\nBody")
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	w := ts.do(http.MethodGet, "/api/files", nil, testAPIKey)
	if w.Code != http.StatusOK || decode(t, w).Count != 1 {
		t.Errorf("Expected one file, got %d %s", w.Code, w.Body.String())
	}

	w = ts.do(http.MethodGet, "/api/files/"+filename, nil, testAPIKey)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Body") {
		t.Errorf("Expected file content, got %d %s", w.Code, w.Body.String())
	}

	w = ts.do(http.MethodPut, "/api/files/"+filename, map[string]string{"content": "# Market update\n\nRevised"}, testAPIKey)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for update, got %d", w.Code)
	}
	if content, _ := ts.files.Read(filename); !strings.Contains(content, "Revised") {
		t.Errorf("Expected revised content, got %q", content)
	}

	w = ts.do(http.MethodGet, "/download/"+filename, nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for download, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("Expected attachment disposition, got %q", w.Header().Get("Content-Disposition"))
	}

	if w := ts.do(http.MethodGet, "/api/files/notes.txt", nil, testAPIKey); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid name, got %d", w.Code)
	}
	if w := ts.do(http.MethodGet, "/api/files/missing.md", nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing file, got %d", w.Code)
	}
	if w := ts.do(http.MethodGet, "/download/missing.md", nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing download, got %d", w.Code)
	}

	if w := ts.do(http.MethodDelete, "/api/files/"+filename, nil, testAPIKey); w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for delete, got %d", w.Code)
	}
	if w := ts.do(http.MethodDelete, "/api/files/"+filename, nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for second delete, got %d", w.Code)
	}
}

func TestWriteArticle(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	newsID := ts.addNews(t, "新能源汽车销量增长", time.Hour)

	if w := ts.do(http.MethodPost, "/api/write_article", map[string]string{}, testAPIKey); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without news_id, got %d", w.Code)
	}
	if w := ts.do(http.MethodPost, "/api/write_article", map[string]string{"news_id": "missing"}, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown news, got %d", w.Code)
	}

	w := ts.do(http.MethodPost, "/api/write_article", map[string]string{"news_id": newsID, "article_type": "analysis"}, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(ts.writer.calls) != 1 {
		t.Fatalf("Expected one writer call, got %d", len(ts.writer.calls))
	}
	call := ts.writer.calls[0]
	if call.news.ID != newsID || call.news.Source != "wire" {
		t.Errorf("Expected news %s from 'wire', got %+v", newsID, call.news)
	}
	if call.articleType != "analysis" || call.style != defaultWritingStyle {
		t.Errorf("Expected analysis/%s, got %s/%s", defaultWritingStyle, call.articleType, call.style)
	}

	var result writer.Result
	if err := json.Unmarshal(decode(t, w).Data, &result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if result.Title != "快讯：新能源汽车销量增长" {
		t.Errorf("Expected generated title, got %q", result.Title)
	}
}

func TestStats(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	for _, a := range []*database.Article{
		{Title: "一", ArticleType: "analysis", QualityScore: 0.8, WordCount: 100},
		{Title: "二", ArticleType: "feature", QualityScore: 0.6, WordCount: 50},
	} {
		if err := ts.articleRepo.Create(a); err != nil {
			t.Fatalf("Failed to create article: %v", err)
		}
	}

	w := ts.do(http.MethodGet, "/api/analytics/stats", nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats database.ArticleStats
	if err := json.Unmarshal(decode(t, w).Data, &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalArticles != 2 || stats.TodayArticles != 2 || stats.TotalWords != 150 {
		t.Errorf("Expected 2 total, 2 today, 150 words, got %+v", stats)
	}
	if stats.TypeCounts["analysis"] != 1 || stats.TypeCounts["feature"] != 1 {
		t.Errorf("Expected one article per type, got %v", stats.TypeCounts)
	}
}

func TestSourceEndpoints(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	w := ts.do(http.MethodGet, "/api/sources", nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var sources []map[string]interface{}
	if err := json.Unmarshal(decode(t, w).Data, &sources); err != nil {
		t.Fatalf("Failed to decode sources: %v", err)
	}
	if len(sources) != 1 || sources[0]["name"] != "wire" {
		t.Errorf("Expected the 'wire' source, got %+v", sources)
	}

	w = ts.do(http.MethodPost, "/api/sources/wire/reload", nil, testAPIKey)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if len(ts.scheduler.reloaded) != 1 || ts.scheduler.reloaded[0] != "wire" {
		t.Errorf("Expected reload of 'wire', got %v", ts.scheduler.reloaded)
	}

	ts.scheduler.err = fmt.Errorf("failed to reload source gone: %w", os.ErrNotExist)
	if w := ts.do(http.MethodPost, "/api/sources/gone/reload", nil, testAPIKey); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing source file, got %d", w.Code)
	}

	if w := ts.do(http.MethodPost, "/api/sources/..secret/reload", nil, testAPIKey); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid name, got %d", w.Code)
	}
}

func TestArticlesFeed(t *testing.T) {
	ts := setupTestServer(t, testAPIKey)

	if err := ts.articleRepo.Create(&database.Article{Title: "芯片产业观察", Summary: "摘要", ArticleType: "analysis"}); err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	w := ts.do(http.MethodGet, "/feeds/articles", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "application/xml") {
		t.Errorf("Expected XML content type, got %s", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Feed-Items") != "1" {
		t.Errorf("Expected X-Feed-Items 1, got %s", w.Header().Get("X-Feed-Items"))
	}
	if !strings.Contains(w.Body.String(), "芯片产业观察") {
		t.Error("Expected article title in feed")
	}
}
