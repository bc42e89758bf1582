package action

import "github.com/c360studio/memoryos/intent"

var labels = map[string]string{
	intent.ActionCreateCalendarEvent: "Add to Calendar",
	intent.ActionSetReminder:         "Set Reminder",
	intent.ActionCreateReminder:      "Create Reminder",
	intent.ActionAddToTodoList:       "Add to Todo",
	intent.ActionSearchStackOverflow: "Search Stack Overflow",
	intent.ActionSearchGoogle:        "Google Search",
	intent.ActionSearchGitHub:        "Search GitHub",
	intent.ActionSearchWikipedia:     "Search Wikipedia",
	intent.ActionSearchImage:         "Search Images",
	intent.ActionSaveContact:         "Save Contact",
	intent.ActionSendEmail:           "Send Email",
	intent.ActionCallPhone:           "Call Phone",
	intent.ActionOpenFile:            "Open File",
	intent.ActionShowInFolder:        "Show in Folder",
	intent.ActionOpenFileLocation:    "Show in Folder",
	intent.ActionOpenInBrowser:       "Open in Browser",
	intent.ActionExtractText:         "Extract Text (OCR)",
}

// Label returns a human-readable name for an action, falling back to the
// raw action name when unknown.
func Label(action string) string {
	if l, ok := labels[action]; ok {
		return l
	}
	return action
}
