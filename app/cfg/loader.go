package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	AIProviderOpenAI = "openai"
	AIProviderGemini = "gemini"
	AIProviderNone   = "none"
)

type rawCfg struct {
	// Storage
	DBPath         string `long:"db-path" env:"DB_PATH" default:"./data/rss-scribe.db" description:"SQLite database file"`
	SourcesDir     string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing news source configuration files"`
	ArticlesDir    string `long:"articles-dir" env:"ARTICLES_DIR" default:"./articles" description:"Directory for generated markdown articles"`
	VocabularyFile string `long:"vocabulary-file" env:"VOCABULARY_FILE" description:"YAML file overriding keyword and pattern tables (optional)"`
	TemplatesFile  string `long:"templates-file" env:"TEMPLATES_FILE" description:"YAML file overriding article templates (optional)"`
	DictPath       string `long:"dict-path" env:"DICT_PATH" description:"Segmentation dictionary file, embedded dictionary when empty"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// AI completion
	AIProvider          string  `long:"ai-provider" env:"AI_PROVIDER" default:"none" choice:"openai" choice:"gemini" choice:"none" description:"AI completion provider"`
	OpenAIAPIKey        string  `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI-compatible API key"`
	OpenAIBaseURL       string  `long:"openai-base-url" env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" description:"OpenAI-compatible API base URL"`
	OpenAIModel         string  `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo" description:"Chat completion model"`
	OpenAIMaxTokens     int     `long:"openai-max-tokens" env:"OPENAI_MAX_TOKENS" default:"2000" description:"Maximum tokens per completion"`
	OpenAITemperature   float64 `long:"openai-temperature" env:"OPENAI_TEMPERATURE" default:"0.7" description:"Sampling temperature"`
	GeminiAPIKey        string  `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Google Gemini API key"`
	GeminiModel         string  `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`
	AIRequestsPerMinute int     `long:"ai-requests-per-minute" env:"AI_REQUESTS_PER_MINUTE" default:"20" description:"Rate limit for AI completion requests"`

	// Text processing
	DedupThreshold   float64 `long:"dedup-threshold" env:"DEDUP_THRESHOLD" default:"0.7" description:"Title similarity above which news items are duplicates"`
	NewsMaxAgeDays   int     `long:"news-max-age-days" env:"NEWS_MAX_AGE_DAYS" default:"7" description:"Only news newer than this is listed"`
	ImproveThreshold float64 `long:"improve-threshold" env:"IMPROVE_THRESHOLD" default:"0.7" description:"Quality score below which an AI improvement round runs"`
	ArticleMinLength int     `long:"article-min-length" env:"ARTICLE_MIN_LENGTH" default:"500" description:"Lower bound of the ideal article length in characters"`
	ArticleMaxLength int     `long:"article-max-length" env:"ARTICLE_MAX_LENGTH" default:"3000" description:"Upper bound of the ideal article length in characters"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Scribe/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Shanghai)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		SourcesDir:          raw.SourcesDir,
		ArticlesDir:         raw.ArticlesDir,
		VocabularyFile:      raw.VocabularyFile,
		TemplatesFile:       raw.TemplatesFile,
		DictPath:            raw.DictPath,
		Port:                raw.Port,
		BaseUrl:             raw.BaseUrl,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		APIAccessKey:        raw.APIAccessKey,
		AIProvider:          raw.AIProvider,
		OpenAIAPIKey:        raw.OpenAIAPIKey,
		OpenAIBaseURL:       raw.OpenAIBaseURL,
		OpenAIModel:         raw.OpenAIModel,
		OpenAIMaxTokens:     raw.OpenAIMaxTokens,
		OpenAITemperature:   raw.OpenAITemperature,
		GeminiAPIKey:        raw.GeminiAPIKey,
		GeminiModel:         raw.GeminiModel,
		AIRequestsPerMinute: raw.AIRequestsPerMinute,
		DedupThreshold:      raw.DedupThreshold,
		NewsMaxAgeDays:      raw.NewsMaxAgeDays,
		ImproveThreshold:    raw.ImproveThreshold,
		ArticleMinLength:    raw.ArticleMinLength,
		ArticleMaxLength:    raw.ArticleMaxLength,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// AIEnabled reports whether the configured provider has credentials.
func (c *Cfg) AIEnabled() bool {
	switch c.AIProvider {
	case AIProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case AIProviderGemini:
		return c.GeminiAPIKey != ""
	}
	return false
}

func (c *Cfg) validate() error {
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("dedup threshold must be in (0, 1], got %v", c.DedupThreshold)
	}
	if c.ImproveThreshold < 0 || c.ImproveThreshold > 1 {
		return fmt.Errorf("improve threshold must be in [0, 1], got %v", c.ImproveThreshold)
	}
	if c.ArticleMinLength <= 0 || c.ArticleMaxLength < c.ArticleMinLength {
		return fmt.Errorf("invalid article length bounds [%d, %d]", c.ArticleMinLength, c.ArticleMaxLength)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.SchedulerInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %d", c.SchedulerInterval)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
