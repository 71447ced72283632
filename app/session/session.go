package session

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/lysyi3m/news-feed/app/feed"
)

// Fetcher is the part of feed.Fetcher the session depends on.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (*feed.Result, error)
}

var _ Fetcher = (*feed.Fetcher)(nil)

type Config struct {
	Endpoint string
	APIKey   string
	Policy   feed.SortPolicy
}

// Session holds the active endpoint, sort policy and the last successful
// result. Articles() is always feed.Sort of that result under the policy.
type Session struct {
	fetcher Fetcher
	apiKey  string

	mu        sync.RWMutex
	endpoint  string
	policy    feed.SortPolicy
	result    *feed.Result
	articles  []feed.Article
	started   uint64 // sequence of the last Refresh to start
	applied   uint64 // sequence of the last Refresh whose result was published
	observers *observers
}

func New(cfg Config, fetcher Fetcher) *Session {
	return &Session{
		fetcher:   fetcher,
		apiKey:    cfg.APIKey,
		endpoint:  cfg.Endpoint,
		policy:    cfg.Policy,
		result:    &feed.Result{Articles: []feed.Article{}},
		articles:  []feed.Article{},
		observers: newObservers(),
	}
}

// SelectEndpoint changes the endpoint used by the next Refresh.
func (s *Session) SelectEndpoint(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoint = endpoint
	s.observers.publish(Event{Kind: EventEndpointChanged, Endpoint: endpoint})
}

// Refresh fetches the active endpoint once. On failure the published
// articles are left untouched and the fetch error is returned as is.
// When refreshes overlap, the one started last wins: an older fetch that
// completes after a newer one was published is discarded, and an older
// failure is returned to its caller without a refresh_failed event.
// Events are published under the state lock so subscribers see them in
// the order the state changed.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.started++
	seq := s.started
	endpoint := s.endpoint
	s.mu.Unlock()

	result, err := s.fetcher.Fetch(ctx, withAPIKey(endpoint, s.apiKey))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		slog.Warn("Refresh failed", "error", err)
		// A newer refresh already published its result; this failure is stale
		if seq < s.applied {
			slog.Debug("Not reporting superseded refresh failure", "sequence", seq, "applied", s.applied)
			return err
		}
		s.observers.publish(Event{Kind: EventRefreshFailed, Policy: s.policy, Err: err})
		return err
	}

	if seq < s.applied {
		slog.Debug("Discarding superseded refresh", "sequence", seq, "applied", s.applied)
		return nil
	}
	s.applied = seq
	s.result = result
	s.articles = feed.Sort(result.Articles, s.policy)

	slog.Info("Articles refreshed", "articles", len(s.articles), "policy", s.policy.String())
	s.observers.publish(Event{Kind: EventArticlesUpdated, Articles: slices.Clone(s.articles), Policy: s.policy})
	return nil
}

// SetSortPolicy re-sorts the already fetched articles. No I/O is done.
func (s *Session) SetSortPolicy(policy feed.SortPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy = policy
	s.articles = feed.Sort(s.result.Articles, policy)
	s.observers.publish(Event{Kind: EventSortChanged, Articles: slices.Clone(s.articles), Policy: policy})
}

// Articles returns a copy of the published, sorted articles.
func (s *Session) Articles() []feed.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.articles)
}

func (s *Session) Article(id string) (feed.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, article := range s.articles {
		if article.ID == id {
			return article, true
		}
	}
	return feed.Article{}, false
}

func (s *Session) Policy() feed.SortPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

func (s *Session) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// Result returns the last successful fetch result, in source order.
func (s *Session) Result() feed.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := *s.result
	result.Articles = slices.Clone(s.result.Articles)
	return result
}

// Subscribe registers for state change events. The returned function
// unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.observers.subscribe()
}

// withAPIKey adds the apiKey query parameter unless the endpoint already has
// one. Unparsable endpoints are passed through for the fetcher to reject.
func withAPIKey(endpoint, apiKey string) string {
	if apiKey == "" {
		return endpoint
	}
	target, err := url.Parse(endpoint)
	if err != nil || !target.IsAbs() {
		return endpoint
	}
	query := target.Query()
	if query.Get("apiKey") != "" {
		return endpoint
	}
	query.Set("apiKey", apiKey)
	target.RawQuery = query.Encode()
	return target.String()
}
