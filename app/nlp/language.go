package nlp

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

var detectableLanguages = []lingua.Language{
	lingua.Chinese,
	lingua.English,
	lingua.Japanese,
	lingua.Korean,
	lingua.Russian,
	lingua.German,
	lingua.French,
	lingua.Spanish,
}

// LanguageDetector guesses the language of a text and reports it as a
// lower-case ISO 639-1 code.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectableLanguages...).
			Build(),
	}
}

// Detect returns "" when the text is empty or no language is reliable.
func (d *LanguageDetector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
