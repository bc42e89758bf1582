package calendarwatcher

import (
	"context"
	"strings"
)

// Event is the calendar-agnostic shape of a fetched event. Start and End
// keep the provider's string form: RFC3339 for timed events, a bare date
// for all-day events.
type Event struct {
	ID          string   `json:"google_event_id"`
	CalendarID  string   `json:"calendar_id"`
	Summary     string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Status      string   `json:"status"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
	Attendees   []string `json:"attendees"`
	Organizer   string   `json:"organizer"`
	MeetingLink string   `json:"meeting_link,omitempty"`
}

// Title returns the event summary, or a placeholder when it is empty.
func (e Event) Title() string {
	if strings.TrimSpace(e.Summary) == "" {
		return "No Title"
	}
	return e.Summary
}

// CalendarService lists upcoming events inside a time window. The window
// bounds are RFC3339 instants; implementations expand recurring events
// and order results by start time.
type CalendarService interface {
	Events(ctx context.Context, timeMin, timeMax string) ([]Event, error)
}
