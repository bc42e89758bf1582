package intent

import (
	"strings"
	"testing"
)

func TestExtractCalendarData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name:    "time date and duration",
			content: "Sync meeting 3:30 PM on 12/25/2026 for 45 min",
			want: map[string]string{
				"time":     "3:30 PM",
				"date":     "12/25/2026",
				"duration": "45 min",
				"title":    "Sync meeting 3:30 PM on 12/25/2026 for",
			},
		},
		{
			name:    "time only",
			content: "Standup at 9:00 am",
			want: map[string]string{
				"time":  "9:00 am",
				"title": "Standup at 9:00 am",
			},
		},
		{
			name:    "no structured fields",
			content: "quarterly planning session",
			want: map[string]string{
				"title": "quarterly planning session",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCalendarData(tt.content)
			if got["raw_content"] != tt.content {
				t.Errorf("raw_content = %q, want original content", got["raw_content"])
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("%s = %q, want %q", key, got[key], want)
				}
			}
			for _, key := range []string{"time", "date", "duration"} {
				if _, expected := tt.want[key]; !expected {
					if v, ok := got[key]; ok {
						t.Errorf("unexpected %s = %q", key, v)
					}
				}
			}
		})
	}
}

func TestExtractCalendarData_TitleCap(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	got := ExtractCalendarData(content)
	if got["title"] != "one two three four five six seven eight" {
		t.Errorf("title = %q, want first eight words", got["title"])
	}
}

func TestExtractErrorQuery(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "after error marker",
			content: "Error: connection refused by host\nsecond line",
			want:    "connection refused by host",
		},
		{
			name:    "error with space separator",
			content: "fatal error something went wrong",
			want:    "something went wrong",
		},
		{
			name:    "no marker uses leading text",
			content: "segfault in module",
			want:    "segfault in module",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractErrorQuery(tt.content)
			if got != tt.want {
				t.Errorf("ExtractErrorQuery(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestExtractErrorQuery_TruncatesLongContent(t *testing.T) {
	content := strings.Repeat("a", 150)
	got := ExtractErrorQuery(content)
	if len(got) != 100 {
		t.Errorf("len = %d, want 100", len(got))
	}
}
