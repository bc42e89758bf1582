package capture

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "text", "metadata.json"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func textRecord(id string) Record {
	return Record{
		ID:             id,
		Timestamp:      time.Now(),
		ContentType:    ContentTypeText,
		ContentPreview: "preview for " + id,
		Source:         SourceClipboard,
	}
}

func TestNewStore_InitializesEmptyFile(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read metadata file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("initial file = %q, want %q", data, "[]")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestStore_AppendPreservesEntries(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(textRecord(id)); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}

	entries := s.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	for i, id := range []string{"a", "b", "c"} {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
	}
}

func TestStore_AppendRejectsInvalidRecord(t *testing.T) {
	s := newTestStore(t)

	rec := textRecord("x")
	rec.Source = ""
	if err := s.Append(rec); err == nil {
		t.Fatal("Append() accepted record without source")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() = %d after rejected append, want 0", got)
	}
}

func TestStore_CorruptFileReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := s.Entries(); got != nil {
		t.Errorf("Entries() = %v on corrupt file, want nil", got)
	}

	// Appending to a corrupt store starts a fresh log rather than failing.
	if err := s.Append(textRecord("fresh")); err != nil {
		t.Fatalf("Append() after corruption error = %v", err)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestStore_EntriesAfter(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(textRecord(id)); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[string]struct{}{"a": {}, "c": {}}
	fresh := s.EntriesAfter(seen)
	if len(fresh) != 1 || fresh[0].ID != "b" {
		t.Errorf("EntriesAfter() = %v, want single record b", fresh)
	}

	if fresh := s.EntriesAfter(map[string]struct{}{}); len(fresh) != 3 {
		t.Errorf("EntriesAfter(empty) len = %d, want 3", len(fresh))
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.Append(textRecord(ContentHash([]byte{byte(n)})))
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got != 10 {
		t.Errorf("Len() = %d after concurrent appends, want 10", got)
	}
}

func TestDeduplicator_WindowSuppression(t *testing.T) {
	d := NewDeduplicator(100 * time.Millisecond)
	now := time.Now()
	d.now = func() time.Time { return now }

	hash := ContentHash([]byte("same content"))

	if d.Seen(hash) {
		t.Fatal("first capture reported as duplicate")
	}
	if !d.Seen(hash) {
		t.Fatal("repeat within window not suppressed")
	}

	// Outside the window the content is captured again.
	now = now.Add(150 * time.Millisecond)
	if d.Seen(hash) {
		t.Fatal("capture outside window reported as duplicate")
	}
}

func TestDeduplicator_PrunesExpired(t *testing.T) {
	d := NewDeduplicator(50 * time.Millisecond)
	now := time.Now()
	d.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		d.Seen(ContentHash([]byte{byte(i)}))
	}
	if d.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", d.Len())
	}

	now = now.Add(time.Second)
	d.Seen(ContentHash([]byte("new")))
	if d.Len() != 1 {
		t.Errorf("Len() = %d after prune, want 1", d.Len())
	}
}

func TestNewDeduplicator_DefaultWindow(t *testing.T) {
	d := NewDeduplicator(0)
	if d.window != DefaultDedupWindow {
		t.Errorf("window = %v, want %v", d.window, DefaultDedupWindow)
	}
}
