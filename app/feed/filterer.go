package feed

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

// Keyword match modes of a SourceFilter.
const (
	MatchSubstring = "substring"
	MatchWord      = "word"
)

var filterFields = map[string]bool{
	"title":      true,
	"summary":    true,
	"content":    true,
	"authors":    true,
	"link":       true,
	"categories": true,
	"language":   true,
}

var matchModes = map[string]bool{
	"":             true,
	MatchSubstring: true,
	MatchWord:      true,
}

// Filterer applies per-source include/exclude rules. Keywords match as
// case-insensitive substrings by default. With match: word a keyword must
// appear as whole segmented words, so "AI" no longer hits "said" and a CJK
// keyword only matches where the segmenter cuts it out. The language field
// compares detected ISO codes exactly.
type Filterer struct {
	segmenter nlp.Segmenter
}

func NewFilterer(seg nlp.Segmenter) *Filterer {
	if seg == nil {
		seg = nlp.FallbackSegmenter{}
	}
	return &Filterer{segmenter: seg}
}

// Run marks items matching the source's filters. Filtered items are kept
// in the result with IsFiltered set so they can be stored and refiltered.
func (f *Filterer) Run(items []Item, source *SourceConfig) []Item {
	if source == nil || len(source.Filters) == 0 {
		return items
	}

	result := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.Check(item, source.Filters)
		result = append(result, item)
	}

	return result
}

// Check applies filters in order. Excludes win over includes; an include
// list that matches nothing filters the item out.
func (f *Filterer) Check(item Item, filters []SourceFilter) (bool, string) {
	for _, filter := range filters {
		match := f.matcher(filter, f.fieldValue(item, filter.Field))

		if keyword, ok := firstMatch(match, filter.Excludes); ok {
			return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, keyword)
		}

		if len(filter.Includes) > 0 {
			if _, ok := firstMatch(match, filter.Includes); !ok {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matcher(filter SourceFilter, value string) func(keyword string) bool {
	switch {
	case filter.Field == "language":
		// Undetected language matches nothing.
		code := strings.ToLower(strings.TrimSpace(value))
		return func(keyword string) bool {
			return code != "" && code == strings.ToLower(strings.TrimSpace(keyword))
		}

	case filter.Match == MatchWord:
		words := nlp.NewTokenSet(f.segmenter, value)
		return func(keyword string) bool {
			required := nlp.Words(f.segmenter, keyword)
			if len(required) == 0 {
				return false
			}
			for _, w := range required {
				if _, ok := words[w]; !ok {
					return false
				}
			}
			return true
		}

	default:
		lower := strings.ToLower(value)
		return func(keyword string) bool {
			return strings.Contains(lower, strings.ToLower(keyword))
		}
	}
}

func firstMatch(match func(string) bool, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		if match(keyword) {
			return keyword, true
		}
	}
	return "", false
}

func (f *Filterer) fieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "summary":
		return item.Summary
	case "content":
		return item.Content
	case "authors":
		return strings.Join(item.Authors, " ")
	case "link":
		return item.Link
	case "categories":
		return strings.Join(item.Categories, " ")
	case "language":
		return item.Language
	default:
		return ""
	}
}
