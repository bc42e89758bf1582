package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/memoryos/intent"
)

var (
	// ErrUnknownAction is returned for action names outside the map.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNotImplemented is returned for actions that are recognized but
	// have no local implementation yet.
	ErrNotImplemented = errors.New("action not implemented")
)

// timestampLayout names generated files, one per wall-clock second.
const timestampLayout = "20060102_150405"

// Executor dispatches suggested actions to their implementations.
// Generated files land under baseDir in per-kind subdirectories.
type Executor struct {
	eventsDir    string
	remindersDir string
	contactsDir  string

	opener Opener
	logger *slog.Logger

	now func() time.Time
}

// NewExecutor creates an Executor writing under baseDir. The events,
// reminders, and contacts subdirectories are created up front.
func NewExecutor(baseDir string, opener Opener, logger *slog.Logger) (*Executor, error) {
	e := &Executor{
		eventsDir:    filepath.Join(baseDir, "events"),
		remindersDir: filepath.Join(baseDir, "reminders"),
		contactsDir:  filepath.Join(baseDir, "contacts"),
		opener:       opener,
		logger:       logger,
		now:          time.Now,
	}
	for _, dir := range []string{e.eventsDir, e.remindersDir, e.contactsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return e, nil
}

// Execute runs a single suggested action. data carries the classifier's
// extracted fields; content is the original captured text used as a
// fallback when a field is missing.
func (e *Executor) Execute(ctx context.Context, action string, data map[string]string, content string) error {
	if data == nil {
		data = map[string]string{}
	}

	var err error
	switch action {
	case intent.ActionCreateCalendarEvent:
		err = e.createCalendarEvent(ctx, data, content)
	case intent.ActionSetReminder, intent.ActionCreateReminder, intent.ActionAddToTodoList:
		err = e.createReminder(data, content)
	case intent.ActionSearchStackOverflow:
		err = e.openSearch(ctx, StackOverflowSearchURL(orElse(data["error_query"], content)))
	case intent.ActionSearchGoogle:
		err = e.openSearch(ctx, GoogleSearchURL(orElse(data["query"], content)))
	case intent.ActionSearchWikipedia:
		err = e.openSearch(ctx, WikipediaSearchURL(orElse(data["query"], content)))
	case intent.ActionSearchGitHub:
		err = e.openSearch(ctx, GitHubIssueSearchURL(orElse(data["error_query"], content)))
	case intent.ActionSearchImage:
		err = e.openSearch(ctx, GoogleImagesURL())
	case intent.ActionOpenInBrowser:
		err = e.opener.OpenURL(ctx, orElse(data["url"], content))
	case intent.ActionOpenFile:
		err = e.openFile(ctx, orElse(data["path"], content))
	case intent.ActionShowInFolder, intent.ActionOpenFileLocation:
		err = e.showInFolder(ctx, orElse(data["path"], content))
	case intent.ActionSaveContact:
		err = e.saveContact(data, content)
	case intent.ActionSendEmail:
		err = e.opener.OpenURL(ctx, "mailto:"+data["email"])
	case intent.ActionCallPhone:
		// No telephony integration; surfacing the number is the action.
		e.logger.Info("phone number detected, dial manually", "phone", data["phone"])
	case intent.ActionExtractText:
		err = fmt.Errorf("image OCR: %w", ErrNotImplemented)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil {
		return fmt.Errorf("executing %s: %w", action, err)
	}
	return nil
}

type reminderRecord struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Task        string `json:"task"`
	CreatedFrom string `json:"created_from"`
	Status      string `json:"status"`
}

func (e *Executor) createReminder(data map[string]string, content string) error {
	now := e.now()
	ts := now.Format(timestampLayout)

	rec := reminderRecord{
		ID:          "reminder_" + ts,
		Timestamp:   now.Format(time.RFC3339),
		Task:        orElse(data["task"], content),
		CreatedFrom: "clipboard",
		Status:      "pending",
	}

	path := filepath.Join(e.remindersDir, "reminder_"+ts+".json")
	if err := writeJSON(path, rec); err != nil {
		return err
	}
	e.logger.Info("created reminder", "path", path, "task", rec.Task)
	return nil
}

type contactRecord struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RawContent  string `json:"raw_content"`
	CreatedFrom string `json:"created_from"`
}

func (e *Executor) saveContact(data map[string]string, content string) error {
	now := e.now()
	ts := now.Format(timestampLayout)

	rec := contactRecord{
		ID:          "contact_" + ts,
		Timestamp:   now.Format(time.RFC3339),
		Email:       data["email"],
		Phone:       data["phone"],
		RawContent:  content,
		CreatedFrom: "clipboard",
	}

	path := filepath.Join(e.contactsDir, "contact_"+ts+".json")
	if err := writeJSON(path, rec); err != nil {
		return err
	}
	e.logger.Info("saved contact", "path", path, "email", rec.Email, "phone", rec.Phone)
	return nil
}

func (e *Executor) openSearch(ctx context.Context, url string) error {
	return e.opener.OpenURL(ctx, url)
}

func (e *Executor) openFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	return e.opener.OpenPath(ctx, path)
}

func (e *Executor) showInFolder(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	return e.opener.RevealPath(ctx, path)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func orElse(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
