package action

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/memoryos/intent"
)

func newTestExecutor(t *testing.T) (*Executor, *RecordingOpener) {
	t.Helper()
	opener := NewRecordingOpener()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := NewExecutor(t.TempDir(), opener, logger)
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}
	e.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return e, opener
}

func TestNewExecutor_CreatesDirectories(t *testing.T) {
	base := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewExecutor(base, NewRecordingOpener(), logger); err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}
	for _, sub := range []string{"events", "reminders", "contacts"} {
		if _, err := os.Stat(filepath.Join(base, sub)); err != nil {
			t.Errorf("missing %s directory: %v", sub, err)
		}
	}
}

func TestExecute_CreateReminder(t *testing.T) {
	e, _ := newTestExecutor(t)

	data := map[string]string{"task": "submit expense report"}
	if err := e.Execute(context.Background(), intent.ActionCreateReminder, data, "ignored"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	path := filepath.Join(e.remindersDir, "reminder_20260314_092653.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading reminder: %v", err)
	}
	var rec reminderRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("unmarshaling reminder: %v", err)
	}
	if rec.Task != "submit expense report" {
		t.Errorf("Task = %q", rec.Task)
	}
	if rec.Status != "pending" || rec.CreatedFrom != "clipboard" {
		t.Errorf("Status = %q, CreatedFrom = %q", rec.Status, rec.CreatedFrom)
	}
	if rec.ID != "reminder_20260314_092653" {
		t.Errorf("ID = %q", rec.ID)
	}
}

func TestExecute_ReminderAliases(t *testing.T) {
	for _, alias := range []string{intent.ActionSetReminder, intent.ActionAddToTodoList} {
		t.Run(alias, func(t *testing.T) {
			e, _ := newTestExecutor(t)
			if err := e.Execute(context.Background(), alias, nil, "call the dentist"); err != nil {
				t.Fatalf("Execute(%s) error = %v", alias, err)
			}
			raw, err := os.ReadFile(filepath.Join(e.remindersDir, "reminder_20260314_092653.json"))
			if err != nil {
				t.Fatalf("reading reminder: %v", err)
			}
			var rec reminderRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				t.Fatal(err)
			}
			if rec.Task != "call the dentist" {
				t.Errorf("Task = %q, content fallback not applied", rec.Task)
			}
		})
	}
}

func TestExecute_SaveContact(t *testing.T) {
	e, _ := newTestExecutor(t)

	data := map[string]string{"email": "jane@example.org", "phone": "555-123-4567"}
	if err := e.Execute(context.Background(), intent.ActionSaveContact, data, "Jane jane@example.org 555-123-4567"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(e.contactsDir, "contact_20260314_092653.json"))
	if err != nil {
		t.Fatalf("reading contact: %v", err)
	}
	var rec contactRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Email != "jane@example.org" || rec.Phone != "555-123-4567" {
		t.Errorf("Email = %q, Phone = %q", rec.Email, rec.Phone)
	}
	if rec.RawContent == "" {
		t.Error("RawContent empty")
	}
}

func TestExecute_CreateCalendarEvent(t *testing.T) {
	e, opener := newTestExecutor(t)

	data := map[string]string{"title": "Team sync"}
	if err := e.Execute(context.Background(), intent.ActionCreateCalendarEvent, data, "Team sync tomorrow 3pm"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	path := filepath.Join(e.eventsDir, "event_20260314_092653.ics")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading ics: %v", err)
	}
	ics := string(raw)
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "SUMMARY:Team sync", "@memoryos.local"} {
		if !strings.Contains(ics, want) {
			t.Errorf("ics missing %q", want)
		}
	}

	calls := opener.Calls()
	if len(calls) != 1 || calls[0].Op != "path" || calls[0].Target != path {
		t.Errorf("opener calls = %v, want single path open of %s", calls, path)
	}
}

func TestExecute_SearchActions(t *testing.T) {
	tests := []struct {
		action  string
		data    map[string]string
		content string
		wantURL string
	}{
		{
			action:  intent.ActionSearchGoogle,
			data:    map[string]string{"query": "what is raft consensus?"},
			wantURL: "https://www.google.com/search?q=what+is+raft+consensus%3F",
		},
		{
			action:  intent.ActionSearchStackOverflow,
			data:    map[string]string{"error_query": "nil pointer dereference"},
			wantURL: "https://stackoverflow.com/search?q=nil+pointer+dereference",
		},
		{
			action:  intent.ActionSearchWikipedia,
			data:    map[string]string{"query": "Ada Lovelace"},
			wantURL: "https://en.wikipedia.org/wiki/Special:Search?search=Ada+Lovelace",
		},
		{
			action:  intent.ActionSearchGitHub,
			data:    map[string]string{"error_query": "panic: runtime error"},
			wantURL: "https://github.com/search?q=panic%3A+runtime+error&type=issues",
		},
		{
			action:  intent.ActionSearchGoogle,
			data:    nil,
			content: "fallback query",
			wantURL: "https://www.google.com/search?q=fallback+query",
		},
		{
			action:  intent.ActionSearchImage,
			wantURL: "https://images.google.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.action+"_"+tt.wantURL, func(t *testing.T) {
			e, opener := newTestExecutor(t)
			if err := e.Execute(context.Background(), tt.action, tt.data, tt.content); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			calls := opener.Calls()
			if len(calls) != 1 || calls[0].Op != "url" {
				t.Fatalf("opener calls = %v, want single url open", calls)
			}
			if calls[0].Target != tt.wantURL {
				t.Errorf("opened %q, want %q", calls[0].Target, tt.wantURL)
			}
		})
	}
}

func TestExecute_OpenInBrowser(t *testing.T) {
	e, opener := newTestExecutor(t)
	if err := e.Execute(context.Background(), intent.ActionOpenInBrowser,
		map[string]string{"url": "https://example.com"}, ""); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	calls := opener.Calls()
	if len(calls) != 1 || calls[0].Target != "https://example.com" {
		t.Errorf("opener calls = %v", calls)
	}
}

func TestExecute_OpenFile(t *testing.T) {
	e, opener := newTestExecutor(t)

	existing := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := e.Execute(context.Background(), intent.ActionOpenFile,
		map[string]string{"path": existing}, ""); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls := opener.Calls(); len(calls) != 1 || calls[0].Op != "path" {
		t.Errorf("opener calls = %v", calls)
	}

	err := e.Execute(context.Background(), intent.ActionOpenFile,
		map[string]string{"path": "/nonexistent/file.txt"}, "")
	if err == nil {
		t.Error("Execute() with missing file succeeded, want error")
	}
}

func TestExecute_ShowInFolderAlias(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, alias := range []string{intent.ActionShowInFolder, intent.ActionOpenFileLocation} {
		t.Run(alias, func(t *testing.T) {
			e, opener := newTestExecutor(t)
			if err := e.Execute(context.Background(), alias, map[string]string{"path": existing}, ""); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if calls := opener.Calls(); len(calls) != 1 || calls[0].Op != "reveal" {
				t.Errorf("opener calls = %v, want single reveal", calls)
			}
		})
	}
}

func TestExecute_SendEmail(t *testing.T) {
	e, opener := newTestExecutor(t)
	if err := e.Execute(context.Background(), intent.ActionSendEmail,
		map[string]string{"email": "jane@example.org"}, ""); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	calls := opener.Calls()
	if len(calls) != 1 || calls[0].Target != "mailto:jane@example.org" {
		t.Errorf("opener calls = %v", calls)
	}
}

func TestExecute_CallPhoneIsLogOnly(t *testing.T) {
	e, opener := newTestExecutor(t)
	if err := e.Execute(context.Background(), intent.ActionCallPhone,
		map[string]string{"phone": "555-123-4567"}, ""); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls := opener.Calls(); len(calls) != 0 {
		t.Errorf("opener calls = %v, want none", calls)
	}
}

func TestExecute_ExtractTextNotImplemented(t *testing.T) {
	e, _ := newTestExecutor(t)
	err := e.Execute(context.Background(), intent.ActionExtractText, nil, "")
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("error = %v, want ErrNotImplemented", err)
	}
}

func TestExecute_UnknownAction(t *testing.T) {
	e, _ := newTestExecutor(t)
	err := e.Execute(context.Background(), "launch_rocket", nil, "")
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestExecute_OpenerFailurePropagates(t *testing.T) {
	e, opener := newTestExecutor(t)
	opener.SetError(errors.New("no display"))
	err := e.Execute(context.Background(), intent.ActionOpenInBrowser,
		map[string]string{"url": "https://example.com"}, "")
	if err == nil {
		t.Error("Execute() succeeded despite opener failure")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(intent.ActionSearchGoogle); got != "Google Search" {
		t.Errorf("Label() = %q", got)
	}
	if got := Label("mystery"); got != "mystery" {
		t.Errorf("Label() fallback = %q, want raw name", got)
	}
}
