package feed

import (
	"time"
)

// Fetch-side types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
	UpdatedAt   *time.Time
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Summary     string // Plain text, HTML stripped
	Content     string
	PublishedAt time.Time // Fetch time when the feed omits it
	UpdatedAt   *time.Time
	Authors     []string // "email (name)" or "name"
	Categories  []string
	Language    string

	ContentHash  string
	IsFiltered   bool
	FilterReason string
}

// Source configuration, one YAML file per source

type SourceConfig struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Priority int            `yaml:"priority"` // lower runs first
	Settings SourceSettings `yaml:"settings"`
	Filters  []SourceFilter `yaml:"filters"`
}

type SourceSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds
	ExtractContent  bool `yaml:"extract_content"` // fetch full article pages
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Match    string   `yaml:"match"` // substring (default) or word
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

const (
	DefaultPriority        = 3
	DefaultRefreshInterval = 1800
	DefaultMaxItems        = 20
	DefaultTimeout         = 30
)
