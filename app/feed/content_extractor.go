package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const minExtractedLength = 100

var contentSelectors = []string{
	".article-content",
	".content",
	".post-content",
	".entry-content",
	"article",
	".main-content",
	"#content",
	".news-content",
}

type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run returns the plain article text of an HTML page. Readability runs
// first, then known content selectors, then every <p>. The result must be
// longer than 100 characters.
func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	if text := e.readability(data); isSubstantial(text) {
		slog.Debug("Content extracted with readability", "content_length", len(text))
		return text, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, nav, header, footer, aside").Remove()

	for _, selector := range contentSelectors {
		text := collapse(doc.Find(selector).First().Text())
		if isSubstantial(text) {
			slog.Debug("Content extracted with selector", "selector", selector, "content_length", len(text))
			return text, nil
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if text := strings.Join(paragraphs, " "); isSubstantial(text) {
		return text, nil
	}

	return "", fmt.Errorf("no content extracted from HTML data")
}

func (e *ContentExtractor) readability(data []byte) string {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		slog.Debug("Readability failed", "error", err)
		return ""
	}
	return collapse(article.TextContent)
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isSubstantial(text string) bool {
	return utf8.RuneCountInString(text) > minExtractedLength
}
