package feed

import (
	"slices"
	"time"
)

// ParseTimestamp parses publishedAt strictly as RFC 3339. ok is false for
// empty or malformed input; such articles have no timestamp at all.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type sortKey struct {
	at    time.Time
	valid bool
}

// Compare is the three-way ordering used by Sort: negative when a sorts
// before b under policy, positive when after, zero for a tie.
func Compare(a, b Article, policy SortPolicy) int {
	at, aok := ParseTimestamp(a.PublishedAt)
	bt, bok := ParseTimestamp(b.PublishedAt)
	return compareKeys(sortKey{at, aok}, sortKey{bt, bok}, policy)
}

func compareKeys(a, b sortKey, policy SortPolicy) int {
	switch {
	case !a.valid && !b.valid:
		return 0
	case a.valid && b.valid:
		if policy == SortOldest {
			return a.at.Compare(b.at)
		}
		return b.at.Compare(a.at)
	}

	// Exactly one side has a timestamp
	if policy == SortOldest {
		if a.valid {
			return 1
		}
		return -1
	}
	if a.valid {
		return -1
	}
	return 1
}

// Sort returns a new slice ordered by policy. Ties keep their input order.
func Sort(articles []Article, policy SortPolicy) []Article {
	type keyed struct {
		article Article
		key     sortKey
	}

	entries := make([]keyed, len(articles))
	for i, article := range articles {
		t, ok := ParseTimestamp(article.PublishedAt)
		entries[i] = keyed{article: article, key: sortKey{t, ok}}
	}

	slices.SortStableFunc(entries, func(a, b keyed) int {
		return compareKeys(a.key, b.key, policy)
	})

	sorted := make([]Article, len(entries))
	for i, entry := range entries {
		sorted[i] = entry.article
	}
	return sorted
}
