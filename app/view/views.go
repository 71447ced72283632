package view

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/news-feed/app/feed"
)

// NotFoundImage is handed to the image loader when an article has no image.
const NotFoundImage = "notfound.jpg"

type Summary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ImageURL       string `json:"image_url"`
	SourceName     string `json:"source,omitempty"`
	PublishedLabel string `json:"published"`
}

type Detail struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Author         string `json:"author,omitempty"`
	SourceName     string `json:"source,omitempty"`
	URL            string `json:"url,omitempty"`
	ImageURL       string `json:"image_url"`
	PublishedAt    string `json:"published_at,omitempty"`
	PublishedLabel string `json:"published"`
}

func NewSummary(article feed.Article) Summary {
	return Summary{
		ID:             article.ID,
		Title:          article.Title,
		ImageURL:       imageOrPlaceholder(article.ImageURL),
		SourceName:     article.SourceName,
		PublishedLabel: feed.FormatPublishedAt(article.PublishedAt),
	}
}

func NewSummaries(articles []feed.Article) []Summary {
	summaries := make([]Summary, 0, len(articles))
	for _, article := range articles {
		summaries = append(summaries, NewSummary(article))
	}
	return summaries
}

func NewDetail(article feed.Article) Detail {
	return Detail{
		ID:             article.ID,
		Title:          article.Title,
		Description:    PlainText(article.Description),
		Author:         article.Author,
		SourceName:     article.SourceName,
		URL:            article.URL,
		ImageURL:       imageOrPlaceholder(article.ImageURL),
		PublishedAt:    article.PublishedAt,
		PublishedLabel: feed.FormatPublishedAt(article.PublishedAt),
	}
}

// PlainText strips markup some sources put into descriptions and collapses
// whitespace.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func imageOrPlaceholder(imageURL string) string {
	if imageURL == "" {
		return NotFoundImage
	}
	return imageURL
}
