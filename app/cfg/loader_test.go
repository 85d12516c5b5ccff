package cfg

import (
	"os"
	"testing"
)

func loadWithArgs(t *testing.T, args ...string) (*Cfg, error) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"test"}, args...)
	defer func() { os.Args = oldArgs }()

	return Load()
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWithArgs(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.DedupThreshold != 0.7 {
		t.Errorf("Expected dedup threshold 0.7, got %v", cfg.DedupThreshold)
	}
	if cfg.ArticleMinLength != 500 || cfg.ArticleMaxLength != 3000 {
		t.Errorf("Expected article length bounds [500, 3000], got [%d, %d]", cfg.ArticleMinLength, cfg.ArticleMaxLength)
	}
	if cfg.AIProvider != AIProviderNone {
		t.Errorf("Expected AI provider 'none', got '%s'", cfg.AIProvider)
	}
	if cfg.AIEnabled() {
		t.Error("Expected AI to be disabled by default")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEDUP_THRESHOLD", "0.5")

	cfg, err := loadWithArgs(t)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.DedupThreshold != 0.5 {
		t.Errorf("Expected dedup threshold 0.5, got %v", cfg.DedupThreshold)
	}
	if !cfg.AIEnabled() {
		t.Error("Expected AI to be enabled with OpenAI key")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"threshold above one", []string{"--dedup-threshold", "1.5"}},
		{"inverted length bounds", []string{"--article-min-length", "800", "--article-max-length", "400"}},
		{"zero workers", []string{"--worker-count", "0"}},
		{"unknown provider", []string{"--ai-provider", "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadWithArgs(t, tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestAIEnabled(t *testing.T) {
	tests := []struct {
		cfg      Cfg
		expected bool
	}{
		{Cfg{AIProvider: AIProviderNone, OpenAIAPIKey: "key"}, false},
		{Cfg{AIProvider: AIProviderOpenAI}, false},
		{Cfg{AIProvider: AIProviderOpenAI, OpenAIAPIKey: "key"}, true},
		{Cfg{AIProvider: AIProviderGemini, GeminiAPIKey: "key"}, true},
	}

	for _, tt := range tests {
		if got := tt.cfg.AIEnabled(); got != tt.expected {
			t.Errorf("AIEnabled(%s): expected %v, got %v", tt.cfg.AIProvider, tt.expected, got)
		}
	}
}
