// Package capture defines the shared metadata record schema used by all
// ingestion watchers, the append-only JSON metadata store they write to,
// and the hash-window deduplicator that suppresses repeated captures.
package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
)

// ContentType identifies what kind of content a record describes.
type ContentType string

// Content types shared across all ingestion watchers.
const (
	ContentTypeText       ContentType = "text"
	ContentTypeURL        ContentType = "url"
	ContentTypeImage      ContentType = "image"
	ContentTypeFiles      ContentType = "files"
	ContentTypeEvent      ContentType = "calendar_event"
	ContentTypeSuggestion ContentType = "concierge_suggestion"
)

// Sources that produce records.
const (
	SourceClipboard = "clipboard"
	SourceCalendar  = "google_calendar"
	SourceConcierge = "concierge"
)

// PreviewLength is the default maximum length of a text content preview.
const PreviewLength = 200

// RecordType is the message type for capture record payloads.
var RecordType = message.Type{Domain: "capture", Category: "record", Version: "v1"}

// ImageInfo describes a captured clipboard image.
type ImageInfo struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
}

// EventDetails summarizes a captured calendar event.
type EventDetails struct {
	Title          string `json:"title"`
	Start          string `json:"start"`
	End            string `json:"end"`
	Location       string `json:"location,omitempty"`
	AttendeeCount  int    `json:"attendee_count"`
	HasDescription bool   `json:"has_description"`
}

// Suggestion carries the concierge classification attached to a
// concierge_suggestion record.
type Suggestion struct {
	ClipboardID        string            `json:"clipboard_id"`
	ClipboardTimestamp string            `json:"clipboard_timestamp,omitempty"`
	Intent             string            `json:"intent"`
	Confidence         float64           `json:"confidence"`
	Reasoning          string            `json:"reasoning,omitempty"`
	SuggestedActions   []string          `json:"suggested_actions"`
	ExtractedData      map[string]string `json:"extracted_data,omitempty"`
	ActionTaken        string            `json:"action_taken"`
}

// Record is the standardized metadata entry appended by every watcher.
// Downstream indexers consume these records either from the metadata store
// file or from the capture.> JetStream subjects.
type Record struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	ContentType    ContentType   `json:"content_type"`
	ContentPreview string        `json:"content_preview"`
	FilePath       string        `json:"file_path,omitempty"`
	Source         string        `json:"source"`
	CopiedFiles    []string      `json:"copied_files,omitempty"`
	ImageInfo      *ImageInfo    `json:"image_info,omitempty"`
	EventDetails   *EventDetails `json:"event_details,omitempty"`
	Suggestion     *Suggestion   `json:"suggestion,omitempty"`
}

// Schema returns the message type for Payload interface.
func (r *Record) Schema() message.Type { return RecordType }

// Validate validates the record for Payload interface.
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.New("record ID is required")
	}
	if r.Timestamp.IsZero() {
		return errors.New("record timestamp is required")
	}
	switch r.ContentType {
	case ContentTypeText, ContentTypeURL, ContentTypeImage, ContentTypeFiles,
		ContentTypeEvent, ContentTypeSuggestion:
	default:
		return fmt.Errorf("unknown content type: %s", r.ContentType)
	}
	if r.Source == "" {
		return errors.New("record source is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	type Alias Record
	return json.Marshal((*Alias)(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	type Alias Record
	return json.Unmarshal(data, (*Alias)(r))
}

// ContentHash computes a SHA256 hash of the content. Record IDs are content
// hashes so identical content maps to the same ID across watchers.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Preview truncates text to max runes for use as a content preview.
func Preview(text string, max int) string {
	if max <= 0 {
		max = PreviewLength
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
