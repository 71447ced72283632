package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/lysyi3m/news-feed/app/feed"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Source is one configured article endpoint.
type Source struct {
	Name     string         // Derived from filename (without extension)
	Title    string         `yaml:"title"`
	URL      string         `yaml:"url"`
	Format   feed.Format    `yaml:"format"`
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled bool `yaml:"enabled"`
	Timeout int  `yaml:"timeout"` // seconds
}

// Registry loads one YAML file per source from a directory and keeps them
// in memory keyed by folded name.
type Registry struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewRegistry(sourcesDir string) *Registry {
	return &Registry{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (r *Registry) Run() error {
	if _, err := os.Stat(r.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(r.sourcesDir, pattern))
		if err != nil {
			return fmt.Errorf("failed to find source files: %w", err)
		}
		files = append(files, matches...)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

		source, err := r.loadFile(name, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "source", source.Name, "format", source.Format, "enabled", source.Settings.Enabled)
	}

	return nil
}

func (r *Registry) loadFile(name, file string) (*Source, error) {
	source, err := r.parseSource(file)
	if err != nil {
		return nil, err
	}

	source.Name = name

	if err := r.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", file, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[foldName(name)] = source

	return source, nil
}

func (r *Registry) GetSource(name string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.cache[foldName(name)]
	if !ok {
		return nil, fmt.Errorf("source with name '%s' not found", name)
	}
	return source, nil
}

// GetSources returns all sources ordered by name.
func (r *Registry) GetSources() []*Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Source, 0, len(r.cache))
	for _, source := range r.cache {
		list = append(list, source)
	}
	slices.SortFunc(list, func(a, b *Source) int {
		return strings.Compare(a.Name, b.Name)
	})
	return list
}

func (r *Registry) GetEnabledSources() []*Source {
	var enabled []*Source
	for _, source := range r.GetSources() {
		if source.Settings.Enabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

func (r *Registry) GetSourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Registry) parseSource(file string) (*Source, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	source := Source{Settings: SourceSettings{Enabled: true}}
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Format == "" {
		source.Format = feed.FormatNewsAPI
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = 30
	}

	return &source, nil
}

func (r *Registry) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if _, err := feed.ValidateEndpoint(source.URL); err != nil {
		return err
	}

	if source.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	switch source.Format {
	case feed.FormatNewsAPI, feed.FormatSyndication:
	default:
		return fmt.Errorf("invalid format: %s", source.Format)
	}

	return nil
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
