package api

import (
	"context"

	"github.com/lysyi3m/news-feed/app/content"
	"github.com/lysyi3m/news-feed/app/feed"
	"github.com/lysyi3m/news-feed/app/session"
	"github.com/lysyi3m/news-feed/app/sources"
	"github.com/lysyi3m/news-feed/app/view"
)

type SessionInterface interface {
	Refresh(ctx context.Context) error
	SelectEndpoint(endpoint string)
	SetSortPolicy(policy feed.SortPolicy)
	Articles() []feed.Article
	Article(id string) (feed.Article, bool)
	Policy() feed.SortPolicy
	Endpoint() string
	Result() feed.Result
	Subscribe() (<-chan session.Event, func())
}

var _ SessionInterface = (*session.Session)(nil)

type ExtractorInterface interface {
	Run(ctx context.Context, pageURL string) (*content.Page, error)
}

var _ ExtractorInterface = (*content.Extractor)(nil)

type Handler struct {
	session   SessionInterface
	registry  *sources.Registry
	extractor ExtractorInterface
	version   string
}

type sortRequest struct {
	Policy *feed.SortPolicy `json:"policy" binding:"required"`
}

type sourceRequest struct {
	Name string `json:"name" binding:"required"`
}

type listResponse struct {
	Policy   feed.SortPolicy `json:"policy"`
	Total    int             `json:"total"`
	Articles []view.Summary  `json:"articles"`
}

type refreshResponse struct {
	Status       string         `json:"status"`
	TotalResults *int           `json:"total_results,omitempty"`
	Code         string         `json:"code,omitempty"`
	Message      string         `json:"message,omitempty"`
	Articles     []view.Summary `json:"articles"`
}

type sourceResponse struct {
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	Format   feed.Format `json:"format"`
	Enabled  bool        `json:"enabled"`
	Selected bool        `json:"selected"`
}

type contentResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Byline  string `json:"byline,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Text    string `json:"text"`
}

type eventPayload struct {
	Policy   feed.SortPolicy `json:"policy"`
	Endpoint string          `json:"endpoint,omitempty"`
	Articles []view.Summary  `json:"articles,omitempty"`
	Error    string          `json:"error,omitempty"`
}
