package feed

import (
	"cmp"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/feeds"

	"github.com/lysyi3m/rss-scribe/app/cfg"
	"github.com/lysyi3m/rss-scribe/app/database"
)

const descriptionLength = 200

// Generator renders generated articles as an RSS 2.0 feed.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(articles []database.Article) (string, error) {
	baseURL := strings.TrimSuffix(cmp.Or(cfg.Get().BaseUrl, "http://localhost:"+cfg.Get().Port), "/")

	updated := time.Now().In(time.Local)
	if len(articles) > 0 {
		updated = articles[0].CreatedAt
	}

	feed := &feeds.Feed{
		Title:       "RSS Scribe",
		Link:        &feeds.Link{Href: baseURL + "/feeds/articles"},
		Description: "Articles drafted from aggregated news",
		Author:      &feeds.Author{Name: fmt.Sprintf("RSS-Scribe/%s", cfg.Get().Version)},
		Created:     updated,
		Updated:     updated,
	}

	feed.Items = make([]*feeds.Item, 0, len(articles))
	for _, article := range articles {
		feed.Items = append(feed.Items, g.item(baseURL, article))
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to render RSS: %w", err)
	}
	return rss, nil
}

func (g *Generator) item(baseURL string, article database.Article) *feeds.Item {
	link := baseURL + "/api/articles/" + article.ID
	if article.Filename != "" {
		link = baseURL + "/download/" + article.Filename
	}

	description := cmp.Or(article.Summary, article.Content)
	if utf8.RuneCountInString(description) > descriptionLength {
		description = string([]rune(description)[:descriptionLength]) + "..."
	}

	item := &feeds.Item{
		Id:          article.ID,
		Title:       article.Title,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Created:     article.CreatedAt,
		Updated:     article.UpdatedAt,
	}
	if article.SourceNewsURL != "" {
		item.Source = &feeds.Link{Href: article.SourceNewsURL}
	}
	return item
}
