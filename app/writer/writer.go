package writer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lysyi3m/rss-scribe/app/analysis"
	"github.com/lysyi3m/rss-scribe/app/database"
	"github.com/lysyi3m/rss-scribe/app/quality"
)

const (
	DefaultStyle            = "professional"
	DefaultImproveThreshold = 0.7
	summaryRunes            = 500
	fallbackContentRunes    = 500
	timestampLayout         = "2006-01-02 15:04:05"
)

var ErrInvalidNews = errors.New("news item must have a title")

var (
	headingMarks = regexp.MustCompile(`#{1,6}\s+`)
	emphasis     = regexp.MustCompile(`\*{1,2}([^*]+)\*{1,2}`)
)

// NewsData is the source news an article is written from.
type NewsData struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	Source      string
	Link        string
	PublishedAt time.Time
}

func NewsFromItem(item *database.NewsItem) *NewsData {
	if item == nil {
		return nil
	}
	return &NewsData{
		ID:          item.ID,
		Title:       item.Title,
		Summary:     item.Summary,
		Content:     item.Content,
		Source:      item.SourceName,
		Link:        item.Link,
		PublishedAt: item.PublishedAt,
	}
}

// Body is the best available text of the news.
func (n NewsData) Body() string {
	return cmp.Or(n.Content, n.Summary)
}

// ArticleFiles persists formatted articles.
type ArticleFiles interface {
	Save(title, body string) (string, error)
}

type Options struct {
	Templates        Templates
	ImproveThreshold float64
	MaxTokens        int
	Temperature      float64
}

type Result struct {
	ArticleID   string            `json:"article_id,omitempty"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Article     string            `json:"article"`
	Filename    string            `json:"filename,omitempty"`
	ArticleType string            `json:"article_type"`
	Style       string            `json:"style"`
	Analysis    analysis.Analysis `json:"analysis"`
	Quality     quality.Result    `json:"quality"`
	AIGenerated bool              `json:"ai_generated"`
	Improved    bool              `json:"improved"`
	Fallback    bool              `json:"fallback"`
}

type Writer struct {
	analyzer  *analysis.Analyzer
	scorer    *quality.Scorer
	completer Completer
	files     ArticleFiles
	articles  database.ArticleRepository
	opts      Options
	now       func() time.Time
}

// New wires a writer. completer, files and articles may be nil: without a
// completer every article is built from templates, without files or
// articles nothing is persisted.
func New(analyzer *analysis.Analyzer, scorer *quality.Scorer, completer Completer,
	files ArticleFiles, articles database.ArticleRepository, opts Options) *Writer {
	if opts.Templates == nil {
		opts.Templates = DefaultTemplates()
	}
	if opts.ImproveThreshold <= 0 {
		opts.ImproveThreshold = DefaultImproveThreshold
	}

	return &Writer{
		analyzer:  analyzer,
		scorer:    scorer,
		completer: completer,
		files:     files,
		articles:  articles,
		opts:      opts,
		now:       time.Now,
	}
}

func (w *Writer) AIAvailable() bool {
	return w.completer != nil
}

func (w *Writer) Templates() Templates {
	return w.opts.Templates
}

// Write drafts, scores, stores and returns an article for news. Generation
// problems degrade to templates or a fallback article; only invalid input
// is an error.
func (w *Writer) Write(ctx context.Context, news *NewsData, articleType, style string) (*Result, error) {
	if news == nil || strings.TrimSpace(news.Title) == "" {
		return nil, ErrInvalidNews
	}
	style = cmp.Or(style, DefaultStyle)

	articleType, tpl := w.opts.Templates.Resolve(articleType)
	result := &Result{ArticleType: articleType, Style: style}

	result.Analysis = w.analyzer.Analyze(analysis.NewsInput{
		Title:       news.Title,
		Summary:     news.Summary,
		Content:     news.Content,
		PublishedAt: news.PublishedAt,
	})

	result.Title = w.title(ctx, news, result.Analysis, articleType, tpl)

	content, aiGenerated := w.content(ctx, news, result.Analysis, articleType, style, tpl)
	result.Content = content
	result.AIGenerated = aiGenerated

	if strings.TrimSpace(content) == "" {
		slog.Warn("Article body is empty, using fallback article", "news", news.Title, "type", articleType)
		result.Fallback = true
		result.Title = "【独家报道】" + news.Title
		result.Content = w.fallbackBody(news)
		result.Article = w.Fallback(news)
	} else {
		result.Article = w.format(result.Title, content, news)
	}

	source := &quality.Source{Content: news.Content, Summary: news.Summary}
	result.Quality = w.scorer.Assess(result.Article, source)

	if result.Quality.TotalScore < w.opts.ImproveThreshold && w.completer != nil && len(result.Quality.Suggestions) > 0 {
		if improved, err := w.improve(ctx, result.Content, result.Quality.Suggestions); err != nil {
			slog.Warn("Article improvement failed", "news", news.Title, "error", err)
		} else {
			article := w.format(result.Title, improved, news)
			result.Content = improved
			result.Article = article
			result.Quality = w.scorer.Assess(article, source)
			result.Improved = true
		}
	}

	slog.Info("Article written",
		"title", result.Title,
		"type", articleType,
		"score", result.Quality.TotalScore,
		"grade", result.Quality.Grade,
		"ai", result.AIGenerated,
		"improved", result.Improved)

	w.persist(news, result)

	return result, nil
}

func (w *Writer) title(ctx context.Context, news *NewsData, a analysis.Analysis, articleType string, tpl Template) string {
	if w.completer != nil {
		opts := w.completionOptions()
		opts.MaxTokens = min(cmp.Or(opts.MaxTokens, titleMaxTokens), titleMaxTokens)

		reply, err := w.completer.Complete(ctx, titlePrompt(*news, a, articleType), opts)
		if err == nil {
			if title := cleanTitle(reply); title != "" {
				return title
			}
			err = fmt.Errorf("empty title")
		}
		slog.Warn("AI title generation failed, using template", "news", news.Title, "error", err)
	}
	return tpl.Title(a)
}

func (w *Writer) content(ctx context.Context, news *NewsData, a analysis.Analysis, articleType, style string, tpl Template) (string, bool) {
	if w.completer != nil {
		reply, err := w.completer.Complete(ctx, contentPrompt(*news, a, articleType, style, tpl), w.completionOptions())
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(reply), true
		}
		if err == nil {
			err = fmt.Errorf("empty content")
		}
		slog.Warn("AI content generation failed, using template", "news", news.Title, "error", err)
	}
	return tpl.Body(*news, a), false
}

func (w *Writer) improve(ctx context.Context, content string, suggestions []string) (string, error) {
	reply, err := w.completer.Complete(ctx, improvementPrompt(content, suggestions), w.completionOptions())
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty improvement")
	}
	return reply, nil
}

func (w *Writer) completionOptions() CompletionOptions {
	return CompletionOptions{MaxTokens: w.opts.MaxTokens, Temperature: w.opts.Temperature}
}

func (w *Writer) format(title, content string, news *NewsData) string {
	return fmt.Sprintf(`# %s

**发布时间：** %s
**信息来源：** %s
**原文链接：** %s

---

%s

---

*本文为AI辅助撰写的原创分析文章，仅供参考。*
`, title, w.now().In(time.Local).Format(timestampLayout), news.Source, news.Link, content)
}

// Fallback is the minimal article used when no body could be produced.
func (w *Writer) Fallback(news *NewsData) string {
	return fmt.Sprintf(`# 【独家报道】%s

**发布时间：** %s
**信息来源：** %s

---

%s

---

*本文基于公开信息整理，仅供参考。*
`, news.Title, w.now().In(time.Local).Format(timestampLayout), news.Source, w.fallbackBody(news))
}

func (w *Writer) fallbackBody(news *NewsData) string {
	return fmt.Sprintf("## 事件概述\n\n%s\n\n## 详细内容\n\n%s...\n\n## 分析观点\n\n这一事件值得关注，我们将持续跟踪报道。",
		news.Summary, truncateRunes(news.Body(), fallbackContentRunes))
}

func (w *Writer) persist(news *NewsData, result *Result) {
	if w.files != nil {
		filename, err := w.files.Save(news.Title, result.Article)
		if err != nil {
			slog.Error("Failed to save article file", "title", result.Title, "error", err)
		} else {
			result.Filename = filename
		}
	}

	if w.articles == nil {
		return
	}

	plain := PlainText(result.Article)
	article := &database.Article{
		Title:           result.Title,
		Content:         plain,
		Summary:         truncateRunes(news.Summary, summaryRunes),
		ArticleType:     result.ArticleType,
		WritingStyle:    result.Style,
		SourceNewsID:    news.ID,
		SourceNewsTitle: news.Title,
		SourceNewsURL:   news.Link,
		Filename:        result.Filename,
		QualityScore:    result.Quality.TotalScore,
		QualityGrade:    string(result.Quality.Grade),
		QualityScores:   result.Quality.Scores,
		WordCount:       CountWords(plain),
	}

	if err := w.articles.Create(article); err != nil {
		slog.Error("Failed to save article", "title", result.Title, "error", err)
		return
	}
	result.ArticleID = article.ID
}

// PlainText drops the header block (everything up to the first "---"
// line) and markdown heading and emphasis marks.
func PlainText(article string) string {
	lines := strings.Split(article, "\n")
	start := 0
	for i, line := range lines {
		if i > 0 && strings.TrimSpace(line) == "---" {
			start = i + 1
			break
		}
	}

	text := strings.Join(lines[start:], "\n")
	text = headingMarks.ReplaceAllString(text, "")
	text = emphasis.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// CountWords counts Han characters individually and other words by
// whitespace-separated runs.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	return count
}
