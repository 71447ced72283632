package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/lysyi3m/news-feed/app/feed"
)

func TestNewSummary(t *testing.T) {
	summary := NewSummary(feed.Article{
		ID:          "abc",
		Title:       "Apple ships a thing",
		ImageURL:    "https://example.com/a.jpg",
		SourceName:  "The Verge",
		PublishedAt: "2023-11-17T10:00:00Z",
	})

	if summary.ID != "abc" {
		t.Errorf("Expected ID 'abc', got: %s", summary.ID)
	}
	if summary.PublishedLabel != "Fri, Nov 17, 2023 at 12:00 PM GMT+2" {
		t.Errorf("Expected formatted date, got: %s", summary.PublishedLabel)
	}
	if summary.ImageURL != "https://example.com/a.jpg" {
		t.Errorf("Expected image URL, got: %s", summary.ImageURL)
	}
}

func TestNewDetailPlaceholders(t *testing.T) {
	detail := NewDetail(feed.Article{Title: "No extras"})

	if detail.ImageURL != NotFoundImage {
		t.Errorf("Expected placeholder image, got: %s", detail.ImageURL)
	}
	if detail.PublishedLabel != feed.UnknownPublishingDate {
		t.Errorf("Expected unknown date label, got: %s", detail.PublishedLabel)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain   text\nwith  spaces", "plain text with spaces"},
		{"<p>Hello <b>world</b></p><script>alert(1)</script>", "Hello world"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.expected {
			t.Errorf("PlainText(%q): expected %q, got: %q", tt.input, tt.expected, got)
		}
	}
}

func TestNewSummariesKeepsOrder(t *testing.T) {
	summaries := NewSummaries([]feed.Article{{Title: "b"}, {Title: "a"}})
	if len(summaries) != 2 || summaries[0].Title != "b" || summaries[1].Title != "a" {
		t.Errorf("Expected input order, got: %+v", summaries)
	}

	if empty := NewSummaries(nil); empty == nil {
		t.Error("Expected non-nil slice for no articles")
	}
}

func TestTerminalRendering(t *testing.T) {
	term := NewTerminal(60)

	list := term.List(NewSummaries([]feed.Article{
		{Title: "First headline", SourceName: "Wired", PublishedAt: "2023-11-17T10:00:00Z"},
		{Title: ""},
	}))
	for _, want := range []string{"1.", "First headline", "Wired", "GMT+2", "2.", "(untitled)", feed.UnknownPublishingDate} {
		if !strings.Contains(list, want) {
			t.Errorf("Expected list to contain %q, got:\n%s", want, list)
		}
	}

	if empty := term.List(nil); !strings.Contains(empty, "No articles") {
		t.Errorf("Expected empty list message, got: %s", empty)
	}

	detail := term.Detail(NewDetail(feed.Article{
		Title:       "Headline",
		Description: "<p>Body</p>",
		Author:      "Jane",
		URL:         "https://example.com/a",
	}), "Extracted text")
	for _, want := range []string{"Headline", "Body", "Jane", "Extracted text", "https://example.com/a", NotFoundImage} {
		if !strings.Contains(detail, want) {
			t.Errorf("Expected detail to contain %q, got:\n%s", want, detail)
		}
	}

	if msg := term.Error(errors.New("boom")); !strings.Contains(msg, "boom") {
		t.Errorf("Expected error message, got: %s", msg)
	}
}
