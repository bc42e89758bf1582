// Package intent classifies captured clipboard content into actionable
// categories. Classification is rule-based pattern matching, fully local,
// with no model or API calls.
package intent

// Intent labels assigned by the classifier.
const (
	IntentNone     = "none"
	IntentOpenURL  = "open_url"
	IntentFile     = "file"
	IntentImage    = "image"
	IntentCalendar = "calendar"
	IntentReminder = "reminder"
	IntentError    = "error"
	IntentSearch   = "search"
	IntentContact  = "contact"
)

// Suggested action names emitted by the classifier. The action package
// maps these to executable behaviors.
const (
	ActionCreateCalendarEvent = "create_calendar_event"
	ActionSetReminder         = "set_reminder"
	ActionCreateReminder      = "create_reminder"
	ActionAddToTodoList       = "add_to_todo_list"
	ActionSearchStackOverflow = "search_stackoverflow"
	ActionSearchGoogle        = "search_google"
	ActionSearchGitHub        = "search_github"
	ActionSearchWikipedia     = "search_wikipedia"
	ActionSearchImage         = "search_image"
	ActionSaveContact         = "save_contact"
	ActionSendEmail           = "send_email"
	ActionCallPhone           = "call_phone"
	ActionOpenInBrowser       = "open_in_browser"
	ActionOpenFile            = "open_file"
	ActionOpenFileLocation    = "open_file_location"
	ActionShowInFolder        = "show_in_folder"
	ActionExtractText         = "extract_text"
)

// previewLength caps the content preview carried on a classification.
const previewLength = 100

// Classification is the result of analyzing one piece of content.
type Classification struct {
	Intent           string            `json:"intent"`
	Confidence       float64           `json:"confidence"`
	Reasoning        string            `json:"reasoning"`
	SuggestedActions []string          `json:"suggested_actions"`
	ExtractedData    map[string]string `json:"extracted_data"`
	ContentPreview   string            `json:"content_preview"`
}

// Actionable reports whether the classification carries at least one
// suggested action.
func (c Classification) Actionable() bool {
	return c.Intent != IntentNone && len(c.SuggestedActions) > 0
}
