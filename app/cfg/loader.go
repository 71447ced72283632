package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/lysyi3m/news-feed/app/feed"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Source     string `long:"source" env:"SOURCE" default:"popular" description:"Source selected at startup"`
	APIKey     string `long:"api-key" env:"NEWS_API_KEY" description:"NewsAPI key appended to requests as apiKey"`
	SortPolicy string `long:"sort" env:"SORT_POLICY" default:"newest" description:"Initial sort order (newest or oldest)"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Automatic refresh interval in seconds (0 disables)"`
	Timeout         int    `long:"timeout" env:"HTTP_TIMEOUT" default:"30" description:"HTTP client timeout in seconds"`
	AccessKey       string `long:"access-key" env:"API_ACCESS_KEY" description:"Access key required by write endpoints (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Feed/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load reads configuration from the command line and environment.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs reads an optional .env file, then args and environment. It returns
// nil, nil when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
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

func fromRaw(raw rawCfg) (*Cfg, error) {
	policy, err := feed.ParseSortPolicy(raw.SortPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid sort policy: %w", err)
	}

	if raw.RefreshInterval < 0 {
		return nil, fmt.Errorf("refresh interval must be non-negative, got %d", raw.RefreshInterval)
	}
	if raw.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", raw.Timeout)
	}

	return &Cfg{
		SourcesDir:      raw.SourcesDir,
		Source:          raw.Source,
		APIKey:          raw.APIKey,
		SortPolicy:      policy,
		Port:            raw.Port,
		RefreshInterval: time.Duration(raw.RefreshInterval) * time.Second,
		Timeout:         time.Duration(raw.Timeout) * time.Second,
		AccessKey:       raw.AccessKey,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}, nil
}
