package nlp

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// Segmenter splits text into word-like tokens. Implementations must handle
// scripts without whitespace word boundaries.
type Segmenter interface {
	Cut(text string) []string
}

// TaggedToken is a token with its part-of-speech tag (jieba/ICTCLAS tag set).
type TaggedToken struct {
	Text string
	Pos  string
}

// Tagger assigns part-of-speech tags to tokens.
type Tagger interface {
	Tag(text string) []TaggedToken
}

type GseSegmenter struct {
	seg gse.Segmenter
}

var (
	_ Segmenter = (*GseSegmenter)(nil)
	_ Tagger    = (*GseSegmenter)(nil)
)

// NewGseSegmenter loads the embedded gse dictionary, or dictPath when set.
func NewGseSegmenter(dictPath string) (*GseSegmenter, error) {
	s := &GseSegmenter{}

	var err error
	if dictPath != "" {
		err = s.seg.LoadDict(dictPath)
	} else {
		err = s.seg.LoadDictEmbed()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load segmentation dictionary: %w", err)
	}

	slog.Debug("Segmentation dictionary loaded", "custom_dict", dictPath)
	return s, nil
}

func (s *GseSegmenter) Cut(text string) []string {
	return s.seg.Cut(Normalize(text), true)
}

func (s *GseSegmenter) Tag(text string) []TaggedToken {
	segments := s.seg.Pos(Normalize(text), true)

	tokens := make([]TaggedToken, 0, len(segments))
	for _, sp := range segments {
		tokens = append(tokens, TaggedToken{Text: sp.Text, Pos: sp.Pos})
	}
	return tokens
}

// FallbackSegmenter needs no dictionary: runs of letters/digits in alphabetic
// scripts become one token, every Han/Kana/Hangul rune becomes its own token.
type FallbackSegmenter struct{}

var _ Segmenter = FallbackSegmenter{}

func (FallbackSegmenter) Cut(text string) []string {
	text = Normalize(text)

	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isIdeographic(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flush()
			if !unicode.IsSpace(r) {
				tokens = append(tokens, string(r))
			}
		}
	}
	flush()

	return tokens
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
