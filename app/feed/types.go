package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Article is a single decoded news article. Empty strings mean the field was
// missing, null or of the wrong type in the source payload.
type Article struct {
	ID          string
	Title       string
	Description string
	Author      string
	URL         string
	ImageURL    string
	PublishedAt string // raw timestamp text as received
	SourceName  string
}

// Result is the outcome of one successful fetch. Articles is never nil.
type Result struct {
	Status       string
	TotalResults *int
	Articles     []Article

	// Set when the API answered with an error envelope
	Code    string
	Message string
}

type SortPolicy int

const (
	SortNewest SortPolicy = iota
	SortOldest
)

// SortPolicies lists the policies in menu order.
var SortPolicies = []SortPolicy{SortNewest, SortOldest}

func (p SortPolicy) String() string {
	switch p {
	case SortNewest:
		return "Newest"
	case SortOldest:
		return "Oldest"
	default:
		return fmt.Sprintf("SortPolicy(%d)", int(p))
	}
}

// ParseSortPolicy matches policy names case-insensitively.
func ParseSortPolicy(name string) (SortPolicy, error) {
	caser := cases.Fold()
	folded := caser.String(strings.TrimSpace(name))
	for _, p := range SortPolicies {
		if caser.String(p.String()) == folded {
			return p, nil
		}
	}
	return SortNewest, fmt.Errorf("unknown sort policy '%s'", name)
}

func (p SortPolicy) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(p.String())), nil
}

func (p *SortPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseSortPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
