package content

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// Page is the readable part of an article web page.
type Page struct {
	Title   string
	Byline  string
	Excerpt string
	HTML    string
	Text    string
}

// Extractor downloads an article page and runs readability over it. Each call
// is a single attempt.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewExtractor(httpClient *http.Client, userAgent string, timeout time.Duration) *Extractor {
	return &Extractor{
		httpClient: cmp.Or(httpClient, http.DefaultClient),
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (e *Extractor) Run(ctx context.Context, pageURL string) (*Page, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("article has no link")
	}

	target, err := url.Parse(pageURL)
	if err != nil || !target.IsAbs() {
		return nil, fmt.Errorf("invalid article link '%s'", pageURL)
	}

	data, err := e.fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article content: %w", err)
	}

	page, err := Extract(data, target)
	if err != nil {
		return nil, err
	}

	slog.Debug("Content extracted successfully", "url", pageURL, "content_length", len(page.Text))
	return page, nil
}

func (e *Extractor) fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// Extract runs readability over an already downloaded HTML document.
func Extract(data []byte, pageURL *url.URL) (*Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	if strings.TrimSpace(article.TextContent) == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	return &Page{
		Title:   article.Title,
		Byline:  article.Byline,
		Excerpt: article.Excerpt,
		HTML:    article.Content,
		Text:    strings.TrimSpace(article.TextContent),
	}, nil
}
