package feed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type envelope struct {
	Status       json.RawMessage `json:"status"`
	TotalResults json.RawMessage `json:"totalResults"`
	Articles     json.RawMessage `json:"articles"`
	Code         json.RawMessage `json:"code"`
	Message      json.RawMessage `json:"message"`
}

// DecodeEnvelope parses a NewsAPI style response body. Only a body that is not
// a JSON object fails; everything inside the envelope degrades to absence.
func DecodeEnvelope(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("response body is not a JSON object")
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}

	result := &Result{
		Status:   decodeString(env.Status),
		Code:     decodeString(env.Code),
		Message:  decodeString(env.Message),
		Articles: DecodeArticles(env.Articles),
	}

	var total int
	if len(env.TotalResults) > 0 && json.Unmarshal(env.TotalResults, &total) == nil {
		result.TotalResults = &total
	}

	return result, nil
}

// DecodeArticles decodes every entry of a JSON array on its own. Entries that
// are not objects are dropped, the rest are kept with whatever fields decode.
func DecodeArticles(raw json.RawMessage) []Article {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return []Article{}
	}

	articles := make([]Article, 0, len(entries))
	for _, entry := range entries {
		article, ok := decodeArticle(entry)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}
	return articles
}

func decodeArticle(raw json.RawMessage) (Article, bool) {
	fields, ok := decodeObject(raw)
	if !ok {
		return Article{}, false
	}

	article := Article{
		Title:       decodeString(fields["title"]),
		Description: decodeString(fields["description"]),
		Author:      decodeString(fields["author"]),
		URL:         decodeString(fields["url"]),
		ImageURL:    decodeString(fields["urlToImage"]),
		PublishedAt: decodeString(fields["publishedAt"]),
	}

	if source, ok := decodeObject(fields["source"]); ok {
		article.SourceName = decodeString(source["name"])
	}

	article.ID = articleID(article.URL)
	return article, true
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// articleID is stable for a given URL so a re-fetched article keeps its ID.
func articleID(articleURL string) string {
	if articleURL == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(articleURL)).String()
}
