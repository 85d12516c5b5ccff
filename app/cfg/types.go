package cfg

type Cfg struct {
	// Storage
	DBPath         string
	SourcesDir     string
	ArticlesDir    string
	VocabularyFile string
	TemplatesFile  string
	DictPath       string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// AI completion
	AIProvider          string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	OpenAIMaxTokens     int
	OpenAITemperature   float64
	GeminiAPIKey        string
	GeminiModel         string
	AIRequestsPerMinute int

	// Text processing
	DedupThreshold   float64
	NewsMaxAgeDays   int
	ImproveThreshold float64
	ArticleMinLength int
	ArticleMaxLength int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
