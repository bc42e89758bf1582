// Package calendarwatcher provides a component that polls Google Calendar
// on an interval and appends upcoming events to the metadata store.
package calendarwatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/memoryos/capture"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
)

// recordSubject is the subject calendar records are published to.
const recordSubject = "capture.record.calendar"

// fileTimestampLayout names saved event files.
const fileTimestampLayout = "20060102_150405"

// Component implements the calendar-watcher processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger

	service   CalendarService
	store     *capture.Store
	eventsDir string

	// seen maps event hashes to first-capture time. The hash covers the
	// event's updated timestamp, so an edited event hashes differently
	// and is captured again.
	seen map[string]time.Time

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Metrics
	eventsCaptured atomic.Int64
	errors         atomic.Int64
	lastActivityMu sync.RWMutex
	lastActivity   time.Time
}

// NewComponent creates a new calendar-watcher processor component.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Use default config if ports not set
	if config.Ports == nil {
		config = DefaultConfig()
		// Re-unmarshal to get user-provided values
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	defaults := DefaultConfig()
	if config.PollInterval == 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.Lookahead == 0 {
		config.Lookahead = defaults.Lookahead
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Component{
		name:       "calendar-watcher",
		config:     config,
		natsClient: deps.NATSClient,
		logger:     deps.GetLogger(),
		eventsDir:  filepath.Join(config.DataDir, "events"),
		seen:       make(map[string]time.Time),
	}, nil
}

// Initialize prepares directories, the metadata store, and the Google
// Calendar client. A pre-set service (tests) is kept as is.
func (c *Component) Initialize() error {
	if err := os.MkdirAll(c.eventsDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.eventsDir, err)
	}

	store, err := capture.NewStore(filepath.Join(c.config.DataDir, "calendar_metadata.json"))
	if err != nil {
		return fmt.Errorf("create metadata store: %w", err)
	}
	c.store = store

	if c.service == nil {
		if c.config.CredentialsPath == "" || c.config.TokenPath == "" {
			return fmt.Errorf("credentials_path and token_path are required")
		}
		service, err := NewGoogleService(context.Background(), c.config.CredentialsPath, c.config.TokenPath)
		if err != nil {
			return fmt.Errorf("create calendar service: %w", err)
		}
		c.service = service
	}

	c.logger.Debug("Initialized calendar-watcher",
		"data_dir", c.config.DataDir,
		"poll_interval", c.config.PollInterval,
		"lookahead", c.config.Lookahead)
	return nil
}

// Start begins polling the calendar.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.store == nil || c.service == nil {
		c.mu.Unlock()
		return fmt.Errorf("component not initialized")
	}

	c.running = true
	c.startTime = time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go c.pollLoop(runCtx)

	c.logger.Info("calendar-watcher started",
		"poll_interval", c.config.PollInterval,
		"lookahead", c.config.Lookahead,
		"publishing", c.natsClient != nil)

	return nil
}

// pollLoop fetches events on a ticker.
func (c *Component) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	// Run immediately on start
	c.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

// pollOnce fetches the lookahead window once. Fetch errors skip the
// cycle; the loop keeps running.
func (c *Component) pollOnce(ctx context.Context) int {
	now := time.Now().UTC()
	timeMin := now.Format(time.RFC3339)
	timeMax := now.Add(c.config.Lookahead).Format(time.RFC3339)

	events, err := c.service.Events(ctx, timeMin, timeMax)
	if err != nil {
		c.logger.Warn("Calendar fetch failed", "error", err)
		c.errors.Add(1)
		capture.DefaultMetrics().SourceError(capture.SourceCalendar)
		return 0
	}

	captured := 0
	for _, ev := range events {
		hash := eventHash(ev)
		if _, ok := c.seen[hash]; ok {
			continue
		}
		c.seen[hash] = time.Now()

		if c.captureEvent(ctx, ev, hash) {
			captured++
		}
	}
	return captured
}

// captureEvent saves the full event JSON and appends a metadata record.
func (c *Component) captureEvent(ctx context.Context, ev Event, hash string) bool {
	filename := fmt.Sprintf("event_%s_%s.json",
		time.Now().Format(fileTimestampLayout), hash[:8])
	path := filepath.Join(c.eventsDir, filename)

	data, err := json.MarshalIndent(ev, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		c.logger.Error("Failed to save event", "path", path, "error", err)
		c.errors.Add(1)
		return false
	}

	rec := capture.Record{
		ID:             hash,
		Timestamp:      time.Now(),
		ContentType:    capture.ContentTypeEvent,
		ContentPreview: ev.Title() + " - " + ev.Start,
		FilePath:       relPath(c.config.DataDir, path),
		Source:         capture.SourceCalendar,
		EventDetails: &capture.EventDetails{
			Title:          ev.Title(),
			Start:          ev.Start,
			End:            ev.End,
			Location:       ev.Location,
			AttendeeCount:  len(ev.Attendees),
			HasDescription: ev.Description != "",
		},
	}
	return c.appendAndPublish(ctx, rec)
}

// appendAndPublish writes the record to the local store and, when a NATS
// client is available, publishes it to the capture stream.
func (c *Component) appendAndPublish(ctx context.Context, rec capture.Record) bool {
	c.updateLastActivity()

	if err := c.store.Append(rec); err != nil {
		c.logger.Error("Failed to append record", "id", rec.ID, "error", err)
		c.errors.Add(1)
		return false
	}

	c.eventsCaptured.Add(1)
	capture.DefaultMetrics().RecordCaptured(capture.SourceCalendar, rec.ContentType)
	c.logger.Info("Captured calendar event",
		"title", rec.EventDetails.Title,
		"start", rec.EventDetails.Start,
		"id", rec.ID[:12])

	if c.natsClient == nil {
		return true
	}

	msg := message.NewBaseMessage(capture.RecordType, &rec, c.name)
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("Failed to marshal record message", "id", rec.ID, "error", err)
		return true
	}
	if err := c.natsClient.PublishToStream(ctx, recordSubject, data); err != nil {
		c.logger.Warn("Failed to publish record", "id", rec.ID, "error", err)
	}
	return true
}

// Stop gracefully stops the component within the given timeout.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.running = false
	c.logger.Info("calendar-watcher stopped",
		"events_captured", c.eventsCaptured.Load(),
		"errors", c.errors.Load())

	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "calendar-watcher",
		Type:        "processor",
		Description: "Polls Google Calendar and captures upcoming events",
		Version:     "0.1.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = buildPort(portDef, component.DirectionInput)
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = buildPort(portDef, component.DirectionOutput)
	}
	return ports
}

// buildPort creates a component.Port from a PortDefinition.
func buildPort(portDef component.PortDefinition, direction component.Direction) component.Port {
	port := component.Port{
		Name:        portDef.Name,
		Direction:   direction,
		Required:    portDef.Required,
		Description: portDef.Description,
	}
	if portDef.Type == "jetstream" {
		port.Config = component.JetStreamPort{
			StreamName: portDef.StreamName,
			Subjects:   []string{portDef.Subject},
		}
	} else {
		port.Config = component.NATSPort{
			Subject: portDef.Subject,
		}
	}
	return port
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return calendarWatcherSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errors.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         0,
		LastActivity:      c.getLastActivity(),
	}
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}

// eventHash identifies an event revision. Including the updated stamp
// means an edit produces a new hash and the event is captured again.
func eventHash(ev Event) string {
	return capture.ContentHash([]byte(ev.ID + ev.Updated + ev.Summary))
}

// relPath returns path relative to base, falling back to the input.
func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
