package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize folds full-width forms to their narrow equivalents and applies
// NFKC so that "ＡＩ２０２４" and "AI2024" tokenize the same way.
func Normalize(text string) string {
	return norm.NFKC.String(width.Fold.String(text))
}

// Words returns the tokens of text that carry at least one letter or digit,
// lower-cased. Whitespace and punctuation tokens are dropped.
func Words(seg Segmenter, text string) []string {
	if seg == nil || text == "" {
		return nil
	}

	raw := seg.Cut(text)
	words := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if !hasWordRune(token) {
			continue
		}
		words = append(words, strings.ToLower(token))
	}
	return words
}

type TokenSet map[string]struct{}

func NewTokenSet(seg Segmenter, text string) TokenSet {
	words := Words(seg, text)
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns |a∩b| / |a∪b|. An empty union yields 0.
func Jaccard(a, b TokenSet) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
