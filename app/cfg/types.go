package cfg

import (
	"time"

	"github.com/lysyi3m/news-feed/app/feed"
)

type Cfg struct {
	// Feed configuration
	SourcesDir string
	Source     string
	APIKey     string
	SortPolicy feed.SortPolicy

	// Application configuration
	Port            string
	RefreshInterval time.Duration
	Timeout         time.Duration
	AccessKey       string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
