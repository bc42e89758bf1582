package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// defaultEventLead is how far ahead a generated event starts when the
// content carries no parseable time.
const defaultEventLead = time.Hour

// createCalendarEvent writes an ICS file for the captured content and
// opens it with the default calendar application.
func (e *Executor) createCalendarEvent(ctx context.Context, data map[string]string, content string) error {
	now := e.now()
	start := now.Add(defaultEventLead)
	end := start.Add(time.Hour)

	summary := orElse(data["title"], "Clipboard Event")

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//MemoryOS//Clipboard Concierge//EN")

	event := cal.AddEvent(uuid.NewString() + "@memoryos.local")
	event.SetDtStampTime(now)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(summary)
	event.SetDescription(content)

	path := filepath.Join(e.eventsDir, "event_"+now.Format(timestampLayout)+".ics")
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	e.logger.Info("created calendar event", "path", path, "summary", summary)

	return e.opener.OpenPath(ctx, path)
}
