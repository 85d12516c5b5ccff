package quality

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

func (s *Scorer) length(text string) float64 {
	l := float64(utf8.RuneCountInString(text))
	lo, hi := float64(s.cfg.LengthMin), float64(s.cfg.LengthMax)

	switch {
	case l < lo:
		return math.Max(0.3, l/lo)
	case l > hi:
		return math.Max(0.7, 1-(l-hi)/hi)
	default:
		return 1.0
	}
}

func (s *Scorer) structure(text string) float64 {
	score := 0.0

	if strings.HasPrefix(text, "#") {
		score += 0.2
	}

	switch n := len(paragraphs(text)); {
	case n >= 3:
		score += 0.3
	case n >= 2:
		score += 0.2
	}

	switch n := len(subheadingPattern.FindAllString(text, -1)); {
	case n >= 2:
		score += 0.3
	case n >= 1:
		score += 0.2
	}

	switch n := len(listItemPattern.FindAllString(text, -1)); {
	case n >= 3:
		score += 0.2
	case n >= 1:
		score += 0.1
	}

	return math.Min(1.0, score)
}

func (s *Scorer) readability(text string) float64 {
	score := 0.0

	if sentences := sentences(text); len(sentences) > 0 {
		switch avg := averageRunes(sentences); {
		case avg >= 15 && avg <= 30:
			score += 0.4
		case avg >= 10 && avg <= 40:
			score += 0.3
		default:
			score += 0.2
		}
	}

	if paras := paragraphs(text); len(paras) > 0 {
		switch avg := averageRunes(paras); {
		case avg >= 100 && avg <= 300:
			score += 0.3
		case avg >= 50 && avg <= 500:
			score += 0.2
		default:
			score += 0.1
		}
	}

	if s.segmenter == nil {
		score += 0.2
	} else if words := nlp.Words(s.segmenter, text); len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		switch diversity := float64(len(unique)) / float64(len(words)); {
		case diversity > 0.6:
			score += 0.3
		case diversity > 0.4:
			score += 0.2
		default:
			score += 0.1
		}
	}

	return math.Min(1.0, score)
}

func (s *Scorer) contentQuality(text string) float64 {
	vocab := s.cfg.Vocabulary
	score := 0.0

	score += math.Min(0.3, float64(countPresent(text, vocab.QualityKeywords))*0.05)

	switch n := len(s.numbers.FindAllString(text, -1)); {
	case n >= 3:
		score += 0.2
	case n >= 1:
		score += 0.1
	}

	citations := 0
	for _, re := range s.citations {
		citations += len(re.FindAllString(text, -1))
	}
	switch {
	case citations >= 2:
		score += 0.2
	case citations >= 1:
		score += 0.1
	}

	score += math.Min(0.3, float64(countPresent(text, vocab.Connectors))*0.1)

	return math.Min(1.0, score)
}

func (s *Scorer) originality(text string, source *Source) float64 {
	if source == nil {
		return 0.8
	}
	reference := source.Content + source.Summary
	if reference == "" {
		return 0.8
	}
	if s.segmenter == nil {
		return 0.7
	}

	similarity := nlp.Jaccard(nlp.NewTokenSet(s.segmenter, text), nlp.NewTokenSet(s.segmenter, reference))
	return math.Max(0.3, math.Min(1.0, 1-similarity))
}

// paragraphs returns the non-blank blocks separated by blank lines.
func paragraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func sentences(text string) []string {
	var result []string
	for _, s := range sentenceSplitter.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func averageRunes(parts []string) float64 {
	total := 0
	for _, p := range parts {
		total += utf8.RuneCountInString(p)
	}
	return float64(total) / float64(len(parts))
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			n++
		}
	}
	return n
}
