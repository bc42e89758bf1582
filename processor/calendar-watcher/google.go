package calendarwatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleService implements CalendarService against the Google Calendar
// API. It consumes an existing OAuth client-credentials file and a
// previously issued token; running the interactive consent flow is a
// separate setup step.
type GoogleService struct {
	svc        *calendar.Service
	calendarID string
}

// NewGoogleService builds a read-only Calendar client from credentials
// and token files on disk.
func NewGoogleService(ctx context.Context, credentialsPath, tokenPath string) (*GoogleService, error) {
	credJSON, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(credJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	tokenJSON, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	// TokenSource refreshes expired tokens using the stored refresh token.
	client := oauthConfig.Client(ctx, &token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &GoogleService{svc: svc}, nil
}

// Events lists events on the primary calendar between timeMin and
// timeMax, expanding recurring events and ordering by start time.
func (g *GoogleService) Events(ctx context.Context, timeMin, timeMax string) ([]Event, error) {
	calendarID, err := g.primaryCalendarID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := g.svc.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, fromGoogleEvent(item, calendarID))
	}
	return events, nil
}

// primaryCalendarID resolves the user's primary calendar, falling back
// to the "primary" alias when the calendar list cannot be read.
func (g *GoogleService) primaryCalendarID(ctx context.Context) (string, error) {
	if g.calendarID != "" {
		return g.calendarID, nil
	}

	list, err := g.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		g.calendarID = "primary"
		return g.calendarID, nil
	}
	g.calendarID = "primary"
	for _, entry := range list.Items {
		if entry.Primary {
			g.calendarID = entry.Id
			break
		}
	}
	return g.calendarID, nil
}

func fromGoogleEvent(item *calendar.Event, calendarID string) Event {
	ev := Event{
		ID:          item.Id,
		CalendarID:  calendarID,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Status:      item.Status,
		Created:     item.Created,
		Updated:     item.Updated,
		MeetingLink: item.HangoutLink,
	}
	if item.Start != nil {
		ev.Start = eventTime(item.Start)
	}
	if item.End != nil {
		ev.End = eventTime(item.End)
	}
	if item.Organizer != nil {
		ev.Organizer = item.Organizer.Email
	}
	for _, a := range item.Attendees {
		if a != nil && a.Email != "" {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
	}
	return ev
}

// eventTime prefers the timed form over the all-day date form.
func eventTime(t *calendar.EventDateTime) string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
