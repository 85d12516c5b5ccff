package nlp

import "testing"

func TestLanguageDetector(t *testing.T) {
	detector := NewLanguageDetector()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "   ", ""},
		{"english", "The central bank raised interest rates again this quarter.", "en"},
		{"chinese", "今天国家统计局发布了最新的经济数据，市场反应积极。", "zh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.input); got != tt.expected {
				t.Errorf("Expected language %q, got %q", tt.expected, got)
			}
		})
	}
}
