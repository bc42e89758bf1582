package intent

import (
	"strings"

	"github.com/c360studio/memoryos/capture"
)

// noneThreshold is the minimum winning confidence for a classification
// to be reported at all.
const noneThreshold = 0.3

// scored is the result of one rule set.
type scored struct {
	confidence float64
	matches    []string
	actions    []string
	data       map[string]string
}

type scorer struct {
	intent string
	label  string
	check  func(content, lower string) scored
}

// Classifier scores content against six independent rule sets and
// assigns the highest-confidence intent.
type Classifier struct {
	scorers []scorer
}

// NewClassifier creates a Classifier with the default rule sets.
func NewClassifier() *Classifier {
	return &Classifier{
		scorers: []scorer{
			{IntentCalendar, "Calendar event", checkCalendar},
			{IntentReminder, "Reminder", checkReminder},
			{IntentError, "Error", checkError},
			{IntentSearch, "Search", checkSearch},
			{IntentContact, "Contact", checkContact},
			{IntentFile, "File path", checkFile},
		},
	}
}

// Classify analyzes content and returns an intent with confidence,
// reasoning, suggested actions, and extracted data. Non-text content
// types short-circuit to fixed responses.
func (c *Classifier) Classify(content string, contentType capture.ContentType) Classification {
	if strings.TrimSpace(content) == "" && contentType != capture.ContentTypeImage {
		return noneClassification()
	}

	switch contentType {
	case capture.ContentTypeURL:
		return Classification{
			Intent:           IntentOpenURL,
			Confidence:       1.0,
			Reasoning:        "URL detected in clipboard",
			SuggestedActions: []string{ActionOpenInBrowser},
			ExtractedData:    map[string]string{"url": content},
			ContentPreview:   content,
		}
	case capture.ContentTypeFiles:
		return Classification{
			Intent:           IntentFile,
			Confidence:       1.0,
			Reasoning:        "File path detected in clipboard",
			SuggestedActions: []string{ActionOpenFile, ActionShowInFolder},
			ExtractedData:    map[string]string{"path": content},
			ContentPreview:   content,
		}
	case capture.ContentTypeImage:
		return Classification{
			Intent:           IntentImage,
			Confidence:       0.7,
			Reasoning:        "Image detected in clipboard, may contain text or an error screenshot",
			SuggestedActions: []string{ActionExtractText, ActionSearchImage},
			ExtractedData:    map[string]string{},
			ContentPreview:   "[Image]",
		}
	}

	lower := strings.ToLower(content)

	best := Classification{Intent: IntentNone}
	bestScore := 0.0
	for _, s := range c.scorers {
		result := s.check(content, lower)
		if result.confidence <= bestScore {
			continue
		}
		bestScore = result.confidence
		best = Classification{
			Intent:           s.intent,
			Confidence:       result.confidence,
			Reasoning:        s.label + " indicators: " + strings.Join(result.matches, ", "),
			SuggestedActions: result.actions,
			ExtractedData:    result.data,
			ContentPreview:   preview(content),
		}
	}

	if bestScore < noneThreshold {
		return noneClassification()
	}
	return best
}

func checkCalendar(content, lower string) scored {
	var score float64
	var matches []string

	if meetingRe.MatchString(lower) {
		score += 0.4
		matches = append(matches, "meeting keyword detected")
	}
	if timeRe.MatchString(content) {
		score += 0.3
		matches = append(matches, "time detected")
	}
	if dateRelativeRe.MatchString(lower) {
		score += 0.3
		matches = append(matches, "relative date detected")
	} else if dateAbsoluteRe.MatchString(lower) {
		score += 0.3
		matches = append(matches, "absolute date detected")
	}
	if durationRe.MatchString(lower) {
		matches = append(matches, "duration detected")
	}

	if score < 0.4 {
		return scored{}
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    []string{ActionCreateCalendarEvent, ActionSetReminder},
		data:       ExtractCalendarData(content),
	}
}

func checkReminder(content, lower string) scored {
	var score float64
	var matches []string

	if todoRe.MatchString(lower) {
		score += 0.5
		matches = append(matches, "todo keyword detected")
	}
	if priorityRe.MatchString(lower) {
		score += 0.2
		matches = append(matches, "priority keyword detected")
	}
	words := strings.Fields(content)
	if len(words) > 0 && len(words) < 10 && actionVerbs[strings.ToLower(words[0])] {
		score += 0.3
		matches = append(matches, "action verb detected")
	}

	if score < 0.5 {
		return scored{}
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    []string{ActionCreateReminder, ActionAddToTodoList},
		data:       map[string]string{"task": strings.TrimSpace(content)},
	}
}

func checkError(content, lower string) scored {
	var score float64
	var matches []string

	if errorKeywordRe.MatchString(lower) {
		score += 0.3
		matches = append(matches, "error keyword detected")
	}
	if stackTraceRe.MatchString(content) {
		score += 0.5
		matches = append(matches, "stack trace pattern detected")
	}
	if languageRe.MatchString(lower) {
		score += 0.2
		matches = append(matches, "programming language detected")
	}

	if score < 0.5 {
		return scored{}
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    []string{ActionSearchStackOverflow, ActionSearchGoogle, ActionSearchGitHub},
		data:       map[string]string{"error_query": ExtractErrorQuery(content)},
	}
}

func checkSearch(content, lower string) scored {
	var score float64
	var matches []string

	if questionRe.MatchString(lower) {
		score += 0.4
		matches = append(matches, "question word detected")
	}
	if definitionRe.MatchString(lower) {
		score += 0.5
		matches = append(matches, "definition pattern detected")
	}
	if strings.HasSuffix(strings.TrimSpace(content), "?") {
		score += 0.3
		matches = append(matches, "question mark detected")
	}

	if score < 0.4 {
		return scored{}
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    []string{ActionSearchGoogle, ActionSearchWikipedia},
		data:       map[string]string{"query": strings.TrimSpace(content)},
	}
}

func checkContact(content, _ string) scored {
	var score float64
	var matches []string
	data := map[string]string{}

	if email := emailRe.FindString(content); email != "" {
		score += 0.6
		matches = append(matches, "email detected")
		data["email"] = email
	}
	if phone := phoneRe.FindString(content); phone != "" {
		score += 0.6
		matches = append(matches, "phone number detected")
		data["phone"] = phone
	}

	if score < 0.6 {
		return scored{}
	}

	actions := []string{ActionSaveContact}
	if data["email"] != "" {
		actions = append(actions, ActionSendEmail)
	}
	if data["phone"] != "" {
		actions = append(actions, ActionCallPhone)
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    actions,
		data:       data,
	}
}

func checkFile(content, _ string) scored {
	var score float64
	var matches []string
	data := map[string]string{}

	if win := windowsPathRe.FindString(content); win != "" {
		score += 0.7
		matches = append(matches, "Windows path detected")
		data["path"] = win
	}
	if m := unixPathRe.FindStringSubmatch(content); m != nil {
		score += 0.7
		matches = append(matches, "Unix path detected")
		data["path"] = m[1]
	}

	if score < 0.7 {
		return scored{}
	}
	return scored{
		confidence: cap1(score),
		matches:    matches,
		actions:    []string{ActionOpenFile, ActionOpenFileLocation},
		data:       data,
	}
}

func noneClassification() Classification {
	return Classification{
		Intent:           IntentNone,
		Confidence:       0,
		Reasoning:        "No clear intent detected",
		SuggestedActions: []string{},
		ExtractedData:    map[string]string{},
	}
}

func cap1(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
