package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

type Topic struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TrendingTopics counts multi-rune alphanumeric tokens across titles and
// summaries and returns the n most frequent. Ties keep first-seen order.
func (a *Analyzer) TrendingTopics(items []NewsInput, n int) []Topic {
	seg := a.segmenter
	if seg == nil {
		seg = nlp.FallbackSegmenter{}
	}

	counts := make(map[string]int)
	var order []string

	for _, item := range items {
		for _, token := range seg.Cut(item.Title + " " + item.Summary) {
			token = strings.TrimSpace(token)
			if utf8.RuneCountInString(token) <= 1 || !isAlphanumeric(token) {
				continue
			}
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	topics := make([]Topic, 0, len(order))
	for _, word := range order {
		topics = append(topics, Topic{Word: word, Count: counts[word]})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})

	if n >= 0 && len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
