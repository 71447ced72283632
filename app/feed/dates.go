package feed

import (
	"strings"
	"time"
)

const UnknownPublishingDate = "Unknown publishing date"

const publishedLabelLayout = "Mon, Jan 2, 2006 at 3:04 PM"

var (
	publishedInputLayouts = []string{
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05Z07:00",
	}
	displayZone = time.FixedZone("GMT+2", 2*60*60)
)

// FormatPublishedAt renders a raw publishedAt value for display, e.g.
// "2023-11-17T10:00:00Z" becomes "Fri, Nov 17, 2023 at 12:00 PM GMT+2".
func FormatPublishedAt(raw string) string {
	// time.Parse tolerates fractional seconds the input format does not have
	if raw == "" || strings.Contains(raw, ".") {
		return UnknownPublishingDate
	}
	for _, layout := range publishedInputLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.In(displayZone).Format(publishedLabelLayout) + " GMT+2"
		}
	}
	return UnknownPublishingDate
}
