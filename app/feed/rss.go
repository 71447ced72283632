package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DecodeSyndication parses an RSS/Atom/JSON Feed document into a Result.
// gofeed parsers keep state between calls, so each call builds its own.
func DecodeSyndication(data []byte) (*Result, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, normalizeItem(parsed, item))
	}

	total := len(articles)
	return &Result{
		Status:       "ok",
		TotalResults: &total,
		Articles:     articles,
	}, nil
}

func normalizeItem(parsed *gofeed.Feed, item *gofeed.Item) Article {
	article := Article{
		Title:       strings.TrimSpace(item.Title),
		Description: cmp.Or(item.Description, item.Content),
		URL:         item.Link,
		SourceName:  parsed.Title,
		Author:      extractAuthor(item),
	}

	if item.Image != nil {
		article.ImageURL = item.Image.URL
	} else if len(item.Enclosures) > 0 && item.Enclosures[0] != nil &&
		strings.HasPrefix(item.Enclosures[0].Type, "image/") {
		article.ImageURL = item.Enclosures[0].URL
	}

	// Keep the raw text when gofeed could not parse it; the sorter treats it as missing
	if item.PublishedParsed != nil {
		article.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		article.PublishedAt = item.Published
	}

	article.ID = articleID(cmp.Or(item.Link, item.GUID))
	return article
}

func extractAuthor(item *gofeed.Item) string {
	var names []string
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			names = append(names, strings.TrimSpace(author.Name))
		}
	}
	if len(names) == 0 && item.Author != nil {
		return strings.TrimSpace(cmp.Or(item.Author.Name, item.Author.Email))
	}
	return strings.Join(names, ", ")
}
