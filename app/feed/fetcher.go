package feed

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Format string

const (
	FormatNewsAPI     Format = "newsapi"
	FormatSyndication Format = "rss"
)

// Outcome is delivered by FetchAsync.
type Outcome struct {
	Result *Result
	Err    error
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	format     Format
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: cmp.Or(httpClient, http.DefaultClient),
		userAgent:  userAgent,
		format:     FormatNewsAPI,
	}
}

// WithFormat returns a copy of the fetcher decoding bodies as format.
func (f *Fetcher) WithFormat(format Format) *Fetcher {
	clone := *f
	clone.format = format
	return &clone
}

// Fetch performs a single GET against endpoint and decodes the body. It
// returns *EndpointError before any I/O, *TransportError for network failures
// and *DecodeError when the body cannot be parsed at all.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (*Result, error) {
	target, err := ValidateEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	redacted := Redact(target)

	data, status, err := f.get(ctx, target)
	if err != nil {
		return nil, &TransportError{Endpoint: redacted, Err: err}
	}

	var result *Result
	switch f.format {
	case FormatSyndication:
		result, err = DecodeSyndication(data)
	default:
		result, err = DecodeEnvelope(data)
	}
	if err != nil {
		return nil, &DecodeError{Endpoint: redacted, Err: err}
	}

	if result.Status != "" && result.Status != "ok" {
		slog.Warn("Feed returned non-ok status", "endpoint", redacted, "http_status", status, "status", result.Status, "code", result.Code, "message", result.Message)
	}

	slog.Debug("Feed fetched", "endpoint", redacted, "http_status", status, "articles", len(result.Articles))
	return result, nil
}

// FetchAsync runs Fetch on its own goroutine and delivers exactly one Outcome.
func (f *Fetcher) FetchAsync(ctx context.Context, endpoint string) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		result, err := f.Fetch(ctx, endpoint)
		done <- Outcome{Result: result, Err: err}
	}()
	return done
}

func (f *Fetcher) get(ctx context.Context, target *url.URL) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, apiKey included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = Redact(target)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("HTTP response received", "status", resp.StatusCode, "bytes", len(data), "duration", time.Since(start))
	return data, resp.StatusCode, nil
}

// ValidateEndpoint accepts absolute http(s) URLs with a host.
func ValidateEndpoint(endpoint string) (*url.URL, error) {
	if endpoint == "" {
		return nil, &EndpointError{Endpoint: endpoint, Reason: "endpoint is empty"}
	}

	target, err := url.Parse(endpoint)
	if err != nil {
		reason := err.Error()
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			reason = urlErr.Err.Error()
		}
		base, _, _ := strings.Cut(endpoint, "?")
		return nil, &EndpointError{Endpoint: base, Reason: reason}
	}
	if !target.IsAbs() || target.Host == "" {
		return nil, &EndpointError{Endpoint: Redact(target), Reason: "endpoint must be an absolute URL"}
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, &EndpointError{Endpoint: Redact(target), Reason: fmt.Sprintf("unsupported scheme '%s'", target.Scheme)}
	}

	return target, nil
}

// Redact hides the apiKey query parameter so URLs can be logged.
func Redact(target *url.URL) string {
	query := target.Query()
	if query.Get("apiKey") == "" {
		return target.String()
	}
	clone := *target
	query.Set("apiKey", "REDACTED")
	clone.RawQuery = query.Encode()
	return clone.String()
}
