package quality

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

const suggestionThreshold = 0.7

var (
	subheadingPattern = regexp.MustCompile(`(?m)^##\s+.+`)
	listItemPattern   = regexp.MustCompile(`(?m)^\s*[-*+]\s+.+`)
	sentenceSplitter  = regexp.MustCompile(`[。！？!?]`)
)

// Scorer is safe for concurrent use; it holds only read-only configuration.
type Scorer struct {
	cfg       Config
	segmenter nlp.Segmenter
	numbers   *regexp.Regexp
	citations []*regexp.Regexp
}

// NewScorer validates cfg and compiles its patterns. seg may be nil, in
// which case segmentation-based checks use fixed default contributions.
func NewScorer(cfg Config, seg nlp.Segmenter) (*Scorer, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.LengthMin <= 0 || cfg.LengthMax < cfg.LengthMin {
		return nil, fmt.Errorf("invalid length bounds [%d, %d]", cfg.LengthMin, cfg.LengthMax)
	}
	if cfg.Suggestions == nil {
		cfg.Suggestions = DefaultSuggestions()
	}

	numbers, err := regexp.Compile(cfg.Vocabulary.NumberPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid number pattern: %w", err)
	}

	citations := make([]*regexp.Regexp, 0, len(cfg.Vocabulary.CitationPatterns))
	for _, p := range cfg.Vocabulary.CitationPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid citation pattern %q: %w", p, err)
		}
		citations = append(citations, re)
	}

	if seg == nil {
		slog.Warn("Quality scorer running without segmenter, using default readability and originality contributions")
	}

	return &Scorer{
		cfg:       cfg,
		segmenter: seg,
		numbers:   numbers,
		citations: citations,
	}, nil
}

// NewDefaultScorer builds a scorer from DefaultConfig.
func NewDefaultScorer(seg nlp.Segmenter) *Scorer {
	s, err := NewScorer(DefaultConfig(), seg)
	if err != nil {
		panic(err)
	}
	return s
}

// Assess scores text on all metrics. It never fails: empty or malformed
// input yields floor scores. source may be nil.
func (s *Scorer) Assess(text string, source *Source) Result {
	scores := map[string]float64{
		MetricLength:         s.length(text),
		MetricStructure:      s.structure(text),
		MetricReadability:    s.readability(text),
		MetricContentQuality: s.contentQuality(text),
		MetricOriginality:    s.originality(text, source),
	}

	total := 0.0
	for _, m := range Metrics {
		scores[m] = round(scores[m], 4)
		total += scores[m] * s.cfg.Weights.Of(m)
	}
	total = round(math.Min(1.0, math.Max(0, total)), 2)

	return Result{
		TotalScore:  total,
		Scores:      scores,
		Grade:       GradeFor(total),
		Suggestions: s.suggestions(scores),
	}
}

func (s *Scorer) Config() Config {
	return s.cfg
}

func (s *Scorer) suggestions(scores map[string]float64) []string {
	suggestions := []string{}
	for _, m := range Metrics {
		if scores[m] < suggestionThreshold {
			if text, ok := s.cfg.Suggestions[m]; ok && text != "" {
				suggestions = append(suggestions, text)
			}
		}
	}
	return suggestions
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
