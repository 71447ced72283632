package feed

import "testing"

func TestFormatPublishedAt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2023-11-17T10:00:00Z", "Fri, Nov 17, 2023 at 12:00 PM GMT+2"},
		{"2023-11-17T23:30:00Z", "Sat, Nov 18, 2023 at 1:30 AM GMT+2"},
		{"2024-02-29T09:05:00+0000", "Thu, Feb 29, 2024 at 11:05 AM GMT+2"},
		{"2023-07-04T12:00:00+02:00", "Tue, Jul 4, 2023 at 12:00 PM GMT+2"},
		{"", UnknownPublishingDate},
		{"yesterday", UnknownPublishingDate},
		{"2023-11-17", UnknownPublishingDate},
		{"2023-11-17T10:00:00.500Z", UnknownPublishingDate},
	}

	for _, tt := range tests {
		if got := FormatPublishedAt(tt.input); got != tt.expected {
			t.Errorf("FormatPublishedAt(%q): expected %q, got: %q", tt.input, tt.expected, got)
		}
	}
}
