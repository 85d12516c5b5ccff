package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// SourceCache holds the parsed <name>.yml source configurations.
type SourceCache struct {
	sourcesDir string
	cache      map[string]*SourceConfig
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*SourceConfig),
	}
}

// Run loads every configuration file. A missing directory is not an error.
func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		slog.Warn("Sources directory does not exist", "dir", sc.sourcesDir)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		source, err := sc.Load(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "source", name, "priority", source.Priority, "enabled", source.Settings.Enabled)
	}

	return nil
}

// Load (re)reads one source file and replaces its cache entry.
func (sc *SourceCache) Load(name string) (*SourceConfig, error) {
	file := sc.filePath(name)
	source, err := sc.parse(file)
	if err != nil {
		return nil, err
	}

	source.Name = name

	if err := validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", file, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[name] = source

	return source, nil
}

func (sc *SourceCache) Get(name string) (*SourceConfig, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", name)
	}
	return source, nil
}

// List returns all sources ordered by priority, then name.
func (sc *SourceCache) List() []*SourceConfig {
	return sc.sorted(func(*SourceConfig) bool { return true })
}

func (sc *SourceCache) Enabled() []*SourceConfig {
	return sc.sorted(func(s *SourceConfig) bool { return s.Settings.Enabled })
}

func (sc *SourceCache) Count() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) sorted(keep func(*SourceConfig) bool) []*SourceConfig {
	sc.mu.RLock()
	sources := make([]*SourceConfig, 0, len(sc.cache))
	for _, s := range sc.cache {
		if keep(s) {
			sources = append(sources, s)
		}
	}
	sc.mu.RUnlock()

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Priority != sources[j].Priority {
			return sources[i].Priority < sources[j].Priority
		}
		return sources[i].Name < sources[j].Name
	})
	return sources
}

func (sc *SourceCache) parse(file string) (*SourceConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source SourceConfig
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Priority == 0 {
		source.Priority = DefaultPriority
	}
	if source.Settings.RefreshInterval == 0 {
		source.Settings.RefreshInterval = DefaultRefreshInterval
	}
	if source.Settings.MaxItems == 0 {
		source.Settings.MaxItems = DefaultMaxItems
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = DefaultTimeout
	}

	return &source, nil
}

func validateSource(source *SourceConfig) error {
	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	nonNegative := map[string]int{
		"priority":         source.Priority,
		"refresh interval": source.Settings.RefreshInterval,
		"max items":        source.Settings.MaxItems,
		"timeout":          source.Settings.Timeout,
	}
	for field, value := range nonNegative {
		if value < 0 {
			return fmt.Errorf("%s must be non-negative", field)
		}
	}

	for i, filter := range source.Filters {
		if !filterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if !matchModes[filter.Match] {
			return fmt.Errorf("invalid filter match mode at index %d: %s", i, filter.Match)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

func (sc *SourceCache) filePath(name string) string {
	return filepath.Join(sc.sourcesDir, name+".yml")
}
