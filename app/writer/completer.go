package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-scribe/app/cfg"
)

type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// Completer sends a single-turn prompt to a text completion model.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// NewCompleter builds the client for the configured provider. It returns
// nil without error when AI is disabled or has no credentials.
func NewCompleter(ctx context.Context, c *cfg.Cfg) (Completer, error) {
	if !c.AIEnabled() {
		if c.AIProvider != cfg.AIProviderNone {
			slog.Warn("AI provider configured without API key, using templates", "provider", c.AIProvider)
		}
		return nil, nil
	}

	switch c.AIProvider {
	case cfg.AIProviderOpenAI:
		return NewOpenAIClient(c.OpenAIBaseURL, c.OpenAIAPIKey, c.OpenAIModel, c.AIRequestsPerMinute), nil
	case cfg.AIProviderGemini:
		return NewGeminiClient(ctx, c.GeminiAPIKey, c.GeminiModel, c.AIRequestsPerMinute)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", c.AIProvider)
	}
}
