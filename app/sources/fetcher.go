package sources

import (
	"context"
	"net/url"
	"time"

	"github.com/lysyi3m/news-feed/app/feed"
)

// Fetcher decodes each endpoint with the format of the source it belongs to
// and applies that source's timeout. Unknown endpoints use the NewsAPI format
// and no extra timeout.
type Fetcher struct {
	registry *Registry
	base     *feed.Fetcher
}

func NewFetcher(registry *Registry, base *feed.Fetcher) *Fetcher {
	return &Fetcher{registry: registry, base: base}
}

func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (*feed.Result, error) {
	source := f.registry.FindByEndpoint(endpoint)
	if source == nil {
		return f.base.Fetch(ctx, endpoint)
	}

	if source.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(source.Settings.Timeout)*time.Second)
		defer cancel()
	}

	return f.base.WithFormat(source.Format).Fetch(ctx, endpoint)
}

// FindByEndpoint returns the source whose URL matches endpoint, ignoring an
// apiKey parameter added at request time.
func (r *Registry) FindByEndpoint(endpoint string) *Source {
	key := endpointKey(endpoint)
	if key == "" {
		return nil
	}
	for _, source := range r.GetSources() {
		if endpointKey(source.URL) == key {
			return source
		}
	}
	return nil
}

func endpointKey(endpoint string) string {
	target, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	query := target.Query()
	query.Del("apiKey")
	target.RawQuery = query.Encode()
	return target.String()
}
