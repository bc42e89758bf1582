package intent

import (
	"regexp"
	"strings"
)

// Extraction patterns are narrower than the scoring patterns: they pull a
// single concrete value rather than testing for presence.
var (
	extractTimeRe     = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM))`)
	extractDateRe     = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	extractDurationRe = regexp.MustCompile(`(?i)(\d+\s*(?:min|hour|hr))`)
)

// titleWords caps how many leading words form the extracted title.
const titleWords = 8

// ExtractCalendarData pulls structured event fields out of free text:
// time, date, duration, and a short title taken from the leading words.
func ExtractCalendarData(content string) map[string]string {
	data := map[string]string{"raw_content": content}

	if m := extractTimeRe.FindStringSubmatch(content); m != nil {
		data["time"] = m[1]
	}
	if m := extractDateRe.FindStringSubmatch(content); m != nil {
		data["date"] = m[1]
	}
	if m := extractDurationRe.FindStringSubmatch(content); m != nil {
		data["duration"] = m[1]
	}

	words := strings.Fields(content)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	data["title"] = strings.Join(words, " ")

	return data
}

// ExtractErrorQuery returns the text after the first "error:" marker, or
// the first 100 characters when no marker is present. The result seeds
// search-engine queries for error lookups.
func ExtractErrorQuery(content string) string {
	if m := errorQueryRe.FindStringSubmatch(strings.ToLower(content)); m != nil {
		return strings.TrimSpace(m[1])
	}
	runes := []rune(content)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return strings.TrimSpace(string(runes))
}
