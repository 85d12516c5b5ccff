package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antlabs/strsim"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

const (
	maxKeyPoints     = 5
	maxEntities      = 10
	nearRepeatRatio  = 0.9
	recentNewsWindow = time.Hour
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// person, place and organisation names
var entityTags = map[string]bool{"nr": true, "ns": true, "nt": true}

var keyPointSplitter = regexp.MustCompile(`[。！？]`)

type NewsInput struct {
	Title       string
	Summary     string
	Content     string
	PublishedAt time.Time
}

type Analysis struct {
	KeyPoints []string  `json:"key_points"`
	Entities  []string  `json:"entities"`
	Sentiment Sentiment `json:"sentiment"`
	Category  string    `json:"category"`
	Urgency   Urgency   `json:"urgency"`
}

type Analyzer struct {
	segmenter nlp.Segmenter
	tagger    nlp.Tagger
	vocab     nlp.Vocabulary
	keyPoints []*regexp.Regexp
	positive  map[string]bool
	negative  map[string]bool
	now       func() time.Time
}

// NewAnalyzer compiles the vocabulary's key-point patterns. seg and tagger
// are optional: without a tagger no entities are extracted, without a
// segmenter sentiment words are counted as substrings.
func NewAnalyzer(vocab nlp.Vocabulary, seg nlp.Segmenter, tagger nlp.Tagger) (*Analyzer, error) {
	patterns := make([]*regexp.Regexp, 0, len(vocab.KeyPointPatterns))
	for _, p := range vocab.KeyPointPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid key point pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	return &Analyzer{
		segmenter: seg,
		tagger:    tagger,
		vocab:     vocab,
		keyPoints: patterns,
		positive:  toSet(vocab.PositiveWords),
		negative:  toSet(vocab.NegativeWords),
		now:       time.Now,
	}, nil
}

func (a *Analyzer) Analyze(news NewsInput) Analysis {
	body := news.Content
	if strings.TrimSpace(body) == "" {
		body = news.Summary
	}
	if strings.TrimSpace(body) == "" {
		body = news.Title
	}

	return Analysis{
		KeyPoints: a.KeyPoints(body),
		Entities:  a.Entities(body),
		Sentiment: a.Sentiment(body),
		Category:  a.Category(news.Title),
		Urgency:   a.Urgency(news.Title, news.PublishedAt),
	}
}

// KeyPoints returns sentences that mention figures, dates or announcement
// verbs, skipping sentences that nearly repeat an earlier point.
func (a *Analyzer) KeyPoints(text string) []string {
	points := []string{}

	for _, sentence := range keyPointSplitter.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !a.matchesKeyPoint(sentence) {
			continue
		}
		if isNearRepeat(sentence, points) {
			continue
		}

		points = append(points, sentence)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

func (a *Analyzer) matchesKeyPoint(sentence string) bool {
	for _, re := range a.keyPoints {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

func isNearRepeat(sentence string, points []string) bool {
	for _, p := range points {
		if strsim.Compare(sentence, p) > nearRepeatRatio {
			return true
		}
	}
	return false
}

func (a *Analyzer) Entities(text string) []string {
	entities := []string{}
	if a.tagger == nil || text == "" {
		return entities
	}

	seen := make(map[string]bool)
	for _, token := range a.tagger.Tag(text) {
		if !entityTags[token.Pos] || utf8.RuneCountInString(token.Text) <= 1 || seen[token.Text] {
			continue
		}
		seen[token.Text] = true
		entities = append(entities, token.Text)
		if len(entities) == maxEntities {
			break
		}
	}
	return entities
}

func (a *Analyzer) Sentiment(text string) Sentiment {
	var positive, negative int

	if a.segmenter == nil {
		for w := range a.positive {
			positive += strings.Count(text, w)
		}
		for w := range a.negative {
			negative += strings.Count(text, w)
		}
	} else {
		for _, token := range a.segmenter.Cut(text) {
			if a.positive[token] {
				positive++
			}
			if a.negative[token] {
				negative++
			}
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Category returns the first category, in table order, with a keyword
// present in title.
func (a *Analyzer) Category(title string) string {
	for _, c := range a.vocab.Categories {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(title, kw) {
				return c.Name
			}
		}
	}
	return a.vocab.DefaultCategory
}

func (a *Analyzer) Urgency(title string, publishedAt time.Time) Urgency {
	for _, kw := range a.vocab.UrgentKeywords {
		if kw != "" && strings.Contains(title, kw) {
			return UrgencyHigh
		}
	}
	if !publishedAt.IsZero() && a.now().Sub(publishedAt) < recentNewsWindow {
		return UrgencyMedium
	}
	return UrgencyLow
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w != "" {
			set[w] = true
		}
	}
	return set
}
