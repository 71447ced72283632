package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const sampleEnvelope = `{"status":"ok","totalResults":3,"articles":[
	{"title":"jan","publishedAt":"2023-01-01T00:00:00Z","url":"https://example.com/jan"},
	{"title":"missing","url":"https://example.com/missing"},
	7,
	{"title":"jun","publishedAt":"2023-06-01T00:00:00Z","url":"https://example.com/jun"}
]}`

func TestFetcherFetchSuccess(t *testing.T) {
	var gotMethod, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "News Feed/test")
	result, err := fetcher.Fetch(context.Background(), server.URL+"/v2/everything?q=apple")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Errorf("Expected GET, got: %s", gotMethod)
	}
	if gotUA != "News Feed/test" {
		t.Errorf("Expected user agent 'News Feed/test', got: %s", gotUA)
	}
	if len(result.Articles) != 3 {
		t.Errorf("Expected 3 articles, got: %d", len(result.Articles))
	}
	if result.TotalResults == nil || *result.TotalResults != 3 {
		t.Errorf("Expected totalResults 3, got: %v", result.TotalResults)
	}
}

func TestFetcherInvalidEndpointDoesNoIO(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "")
	endpoints := []string{
		"",
		"not a url",
		"/v2/everything",
		"ftp://example.com/feed",
		"http://",
		"://missing-scheme",
	}

	for _, endpoint := range endpoints {
		_, err := fetcher.Fetch(context.Background(), endpoint)
		if !errors.Is(err, ErrInvalidEndpoint) {
			t.Errorf("Expected ErrInvalidEndpoint for %q, got: %v", endpoint, err)
		}
		var endpointErr *EndpointError
		if !errors.As(err, &endpointErr) {
			t.Errorf("Expected *EndpointError for %q, got: %T", endpoint, err)
		}
	}

	if hits.Load() != 0 {
		t.Errorf("Expected no requests, got: %d", hits.Load())
	}
}

func TestFetcherTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	fetcher := NewFetcher(nil, "")
	_, err := fetcher.Fetch(context.Background(), endpoint)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got: %T (%v)", err, err)
	}
	if transportErr.Unwrap() == nil {
		t.Error("Expected wrapped cause")
	}
}

func TestFetcherCancelledContextIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(server.Client(), "").Fetch(ctx, server.URL)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got: %T (%v)", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got: %v", err)
	}
}

func TestFetcherDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := NewFetcher(server.Client(), "").Fetch(context.Background(), server.URL)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *DecodeError, got: %T (%v)", err, err)
	}
}

func TestFetcherErrorStatusDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyMissing","message":"Your API key is missing."}`))
	}))
	defer server.Close()

	result, err := NewFetcher(server.Client(), "").Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Code != "apiKeyMissing" {
		t.Errorf("Expected code 'apiKeyMissing', got: %s", result.Code)
	}
	if len(result.Articles) != 0 {
		t.Errorf("Expected empty articles, got: %d", len(result.Articles))
	}
}

func TestFetcherConcurrentCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			w.Write([]byte(`{"status":"ok","articles":[]}`))
			return
		}
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "")

	var wg sync.WaitGroup
	errs := make(chan string, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			result, err := fetcher.Fetch(context.Background(), server.URL+"/full")
			if err != nil || len(result.Articles) != 3 {
				errs <- "full"
			}
		}()
		go func() {
			defer wg.Done()
			result, err := fetcher.Fetch(context.Background(), server.URL+"/empty")
			if err != nil || len(result.Articles) != 0 {
				errs <- "empty"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Errorf("Unexpected result for %s endpoint", e)
	}
}

func TestFetcherFetchAsync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleEnvelope))
	}))
	defer server.Close()

	outcome := <-NewFetcher(server.Client(), "").FetchAsync(context.Background(), server.URL)
	if outcome.Err != nil {
		t.Fatalf("Expected no error, got: %v", outcome.Err)
	}
	if len(outcome.Result.Articles) != 3 {
		t.Errorf("Expected 3 articles, got: %d", len(outcome.Result.Articles))
	}
}

func TestFetcherSyndicationFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "").WithFormat(FormatSyndication)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Articles) != 2 {
		t.Errorf("Expected 2 articles, got: %d", len(result.Articles))
	}
}

func TestRedact(t *testing.T) {
	target, _ := url.Parse("https://newsapi.org/v2/everything?q=apple&apiKey=secret")

	redacted := Redact(target)
	if strings.Contains(redacted, "secret") {
		t.Errorf("Expected API key to be redacted, got: %s", redacted)
	}
	if !strings.Contains(redacted, "q=apple") {
		t.Errorf("Expected other parameters to be kept, got: %s", redacted)
	}
	if target.Query().Get("apiKey") != "secret" {
		t.Error("Expected original URL to be untouched")
	}
}

func TestFetcherErrorsHideAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := server.URL
	server.Close()

	fetcher := NewFetcher(nil, "")

	_, err := fetcher.Fetch(context.Background(), closedURL+"/v2/everything?q=apple&apiKey=supersecret")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected transport error, got: %T %v", err, err)
	}
	if strings.Contains(err.Error(), "supersecret") {
		t.Errorf("Expected API key to be hidden, got: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "q=apple") {
		t.Errorf("Expected request URL in error, got: %s", err.Error())
	}

	invalid := []string{
		"ftp://newsapi.org/v2/everything?apiKey=supersecret",
		"/v2/everything?apiKey=supersecret",
		"http://[::1/v2/everything?apiKey=supersecret",
	}
	for _, endpoint := range invalid {
		_, err := fetcher.Fetch(context.Background(), endpoint)
		if !errors.Is(err, ErrInvalidEndpoint) {
			t.Errorf("Expected invalid endpoint for %q, got: %v", endpoint, err)
			continue
		}
		if strings.Contains(err.Error(), "supersecret") {
			t.Errorf("Expected API key to be hidden, got: %s", err.Error())
		}
	}
}
