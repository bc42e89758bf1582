package intent

import "regexp"

// All patterns are compiled once at package initialization. Keyword
// patterns run against lowercased content, so they omit (?i).
var (
	// Calendar indicators.
	meetingRe      = regexp.MustCompile(`\b(meet|meeting|call|zoom|teams|skype|interview|appointment)\b`)
	timeRe         = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:AM|PM)|\d{1,2}\s*(?:AM|PM))\b`)
	dateRelativeRe = regexp.MustCompile(`\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	dateAbsoluteRe = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s*\d{1,2})\b`)
	durationRe     = regexp.MustCompile(`\b(\d+\s*(?:min|hour|hr|minutes|hours))\b`)

	// Reminder indicators.
	todoRe     = regexp.MustCompile(`\b(todo|task|reminder|remember|don't forget|make sure|need to)\b`)
	priorityRe = regexp.MustCompile(`\b(urgent|important|asap|priority|critical)\b`)

	// Error indicators.
	errorKeywordRe = regexp.MustCompile(`\b(error|exception|failed|failure|bug|issue|problem|crash)\b`)
	stackTraceRe   = regexp.MustCompile(`(?i)\b(at\s+[\w.]+\(|traceback|file\s+"|line\s+\d+)\b`)
	languageRe     = regexp.MustCompile(`\b(python|javascript|java|cpp|c\+\+|typescript|go|rust|sql)\b`)
	errorQueryRe   = regexp.MustCompile(`error[:\s]+([^\n]+)`)

	// Search indicators.
	questionRe   = regexp.MustCompile(`\b(?:how|what|when|where|who|why|which|can you|is there|are there)\b`)
	definitionRe = regexp.MustCompile(`\b(?:define|meaning of|what is|what are)\b`)

	// Contact indicators.
	emailRe = regexp.MustCompile(`\b[\w.+-]+@[\w.-]+\.[a-zA-Z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	// File path indicators. The unix pattern requires a rooted path with
	// at least one non-space segment so a bare slash in prose does not
	// score as a file path.
	windowsPathRe = regexp.MustCompile(`[A-Za-z]:\\(?:[^\\/:*?"<>|\s]+\\)*[^\\/:*?"<>|\s]*`)
	unixPathRe    = regexp.MustCompile(`(?:^|\s)(/(?:[^/\x00\s]+/)*[^/\x00\s]+)`)

	// Short task texts opening with one of these verbs read as todos.
	actionVerbs = map[string]bool{
		"buy": true, "call": true, "email": true, "send": true,
		"finish": true, "complete": true, "start": true,
	}
)
