// Package concierge provides a component that classifies captured
// clipboard records and records (or executes) suggested actions.
package concierge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/memoryos/action"
	"github.com/c360studio/memoryos/capture"
	"github.com/c360studio/memoryos/intent"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// clipboardSubject is the subject clipboard records arrive on.
	clipboardSubject = "capture.record.clipboard"

	// suggestionSubject is the subject suggestions are published to.
	suggestionSubject = "capture.suggestion"

	// suggestionIDLayout timestamps suggestion record IDs.
	suggestionIDLayout = "20060102150405"
)

// Component implements the concierge processor. It reads clipboard
// records from two paths: a durable JetStream consumer when a broker is
// available, and a tailer on the clipboard metadata file so the
// concierge also works store-only.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger

	classifier *intent.Classifier
	executor   *action.Executor
	store      *capture.Store
	clipboard  *capture.Store
	tailer     *StoreTailer

	// processed holds clipboard record IDs already classified, seeded
	// from the suggestion store so restarts do not re-suggest.
	processedMu sync.Mutex
	processed   map[string]struct{}

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Metrics
	suggestionsMade atomic.Int64
	autoExecuted    atomic.Int64
	skipped         atomic.Int64
	errors          atomic.Int64
	lastActivityMu  sync.RWMutex
	lastActivity    time.Time
}

// NewComponent creates a new concierge processor component.
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
	if config.Debounce == 0 {
		config.Debounce = defaults.Debounce
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	if config.StreamName == "" {
		config.StreamName = defaults.StreamName
	}
	if config.ConsumerName == "" {
		config.ConsumerName = defaults.ConsumerName
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Component{
		name:       "concierge",
		config:     config,
		natsClient: deps.NATSClient,
		logger:     deps.GetLogger(),
		classifier: intent.NewClassifier(),
		processed:  make(map[string]struct{}),
	}, nil
}

// Initialize prepares the stores, the action executor, and the tailer.
func (c *Component) Initialize() error {
	store, err := capture.NewStore(filepath.Join(c.config.DataDir, "concierge_metadata.json"))
	if err != nil {
		return fmt.Errorf("create suggestion store: %w", err)
	}
	c.store = store

	for _, rec := range store.Entries() {
		if rec.Suggestion != nil && rec.Suggestion.ClipboardID != "" {
			c.processed[rec.Suggestion.ClipboardID] = struct{}{}
		}
	}

	clipboardPath := c.config.ClipboardStorePath
	if clipboardPath == "" {
		clipboardPath = filepath.Join(c.config.DataDir, "clipboard_metadata.json")
	}
	clipboard, err := capture.NewStore(clipboardPath)
	if err != nil {
		return fmt.Errorf("open clipboard store: %w", err)
	}
	c.clipboard = clipboard

	if c.executor == nil {
		executor, err := action.NewExecutor(c.config.DataDir, action.NewSystemOpener(), c.logger)
		if err != nil {
			return fmt.Errorf("create action executor: %w", err)
		}
		c.executor = executor
	}

	tailer, err := NewStoreTailer(clipboardPath, c.config.Debounce, c.config.PollInterval, c.logger)
	if err != nil {
		return fmt.Errorf("create store tailer: %w", err)
	}
	c.tailer = tailer

	c.logger.Debug("Initialized concierge",
		"clipboard_store", clipboardPath,
		"auto_execute", c.config.AutoExecute,
		"min_confidence", c.config.MinConfidence,
		"known_ids", len(c.processed))
	return nil
}

// Start begins consuming clipboard records.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.store == nil || c.tailer == nil {
		c.mu.Unlock()
		return fmt.Errorf("component not initialized")
	}

	c.running = true
	c.startTime = time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	if err := c.tailer.Start(runCtx); err != nil {
		c.Stop(0)
		return fmt.Errorf("start tailer: %w", err)
	}
	go c.tailLoop(runCtx)

	if c.natsClient != nil {
		go c.consumeMessages(runCtx)
	}

	c.logger.Info("concierge started",
		"auto_execute", c.config.AutoExecute,
		"consuming", c.natsClient != nil)

	return nil
}

// tailLoop scans the clipboard store whenever the tailer signals.
func (c *Component) tailLoop(ctx context.Context) {
	// Process the backlog on start
	c.scanStore(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-c.tailer.Changes():
			if !ok {
				return
			}
			c.scanStore(ctx)
		}
	}
}

// scanStore classifies clipboard records not yet processed. Returns the
// number of suggestions made.
func (c *Component) scanStore(ctx context.Context) int {
	c.processedMu.Lock()
	known := make(map[string]struct{}, len(c.processed))
	for id := range c.processed {
		known[id] = struct{}{}
	}
	c.processedMu.Unlock()

	made := 0
	for _, rec := range c.clipboard.EntriesAfter(known) {
		select {
		case <-ctx.Done():
			return made
		default:
		}
		if c.processRecord(ctx, rec) {
			made++
		}
	}
	return made
}

// RunOnce processes the current clipboard backlog a single time. It is
// the engine of the one-shot analyze mode and requires Initialize.
func (c *Component) RunOnce(ctx context.Context) (int, error) {
	if c.store == nil || c.clipboard == nil {
		return 0, fmt.Errorf("component not initialized")
	}
	return c.scanStore(ctx), nil
}

// processRecord classifies one clipboard record and records a suggestion
// when an intent is detected. Reports whether a suggestion was made.
// Records are marked processed even when no intent is found.
func (c *Component) processRecord(ctx context.Context, rec capture.Record) bool {
	c.processedMu.Lock()
	if _, ok := c.processed[rec.ID]; ok {
		c.processedMu.Unlock()
		return false
	}
	c.processed[rec.ID] = struct{}{}
	c.processedMu.Unlock()

	c.updateLastActivity()

	cls := c.classifier.Classify(rec.ContentPreview, rec.ContentType)
	if !cls.Actionable() || cls.Confidence < c.config.MinConfidence {
		c.skipped.Add(1)
		c.logger.Debug("No clear intent",
			"clipboard_id", shortID(rec.ID),
			"confidence", cls.Confidence)
		return false
	}

	actionTaken := "suggested"
	if c.config.AutoExecute && len(cls.SuggestedActions) > 0 {
		best := cls.SuggestedActions[0]
		if err := c.executor.Execute(ctx, best, cls.ExtractedData, cls.ContentPreview); err != nil {
			c.logger.Warn("Auto-execute failed",
				"action", best,
				"clipboard_id", shortID(rec.ID),
				"error", err)
			c.errors.Add(1)
		} else {
			actionTaken = "auto_executed"
			c.autoExecuted.Add(1)
			c.logger.Info("Auto-executed action",
				"action", action.Label(best),
				"clipboard_id", shortID(rec.ID))
		}
	}

	now := time.Now()
	suggestion := capture.Record{
		ID:             suggestionID(now),
		Timestamp:      now,
		ContentType:    capture.ContentTypeSuggestion,
		ContentPreview: cls.ContentPreview,
		Source:         capture.SourceConcierge,
		Suggestion: &capture.Suggestion{
			ClipboardID:        rec.ID,
			ClipboardTimestamp: rec.Timestamp.Format(time.RFC3339),
			Intent:             cls.Intent,
			Confidence:         cls.Confidence,
			Reasoning:          cls.Reasoning,
			SuggestedActions:   cls.SuggestedActions,
			ExtractedData:      cls.ExtractedData,
			ActionTaken:        actionTaken,
		},
	}

	if err := c.store.Append(suggestion); err != nil {
		c.logger.Error("Failed to append suggestion", "id", suggestion.ID, "error", err)
		c.errors.Add(1)
		return false
	}

	c.suggestionsMade.Add(1)
	capture.DefaultMetrics().RecordCaptured(capture.SourceConcierge, capture.ContentTypeSuggestion)
	c.logger.Info("Suggestion recorded",
		"intent", cls.Intent,
		"confidence", cls.Confidence,
		"actions", cls.SuggestedActions,
		"action_taken", actionTaken)

	c.publishSuggestion(ctx, &suggestion)
	return true
}

// publishSuggestion publishes the suggestion record when a NATS client
// is available.
func (c *Component) publishSuggestion(ctx context.Context, rec *capture.Record) {
	if c.natsClient == nil {
		return
	}

	msg := message.NewBaseMessage(capture.RecordType, rec, c.name)
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("Failed to marshal suggestion message", "id", rec.ID, "error", err)
		return
	}
	if err := c.natsClient.PublishToStream(ctx, suggestionSubject, data); err != nil {
		c.logger.Warn("Failed to publish suggestion", "id", rec.ID, "error", err)
	}
}

// consumeMessages runs the durable consumer over clipboard records.
func (c *Component) consumeMessages(ctx context.Context) {
	js, err := c.natsClient.JetStream()
	if err != nil {
		c.logger.Error("Failed to get JetStream context", "error", err)
		return
	}

	stream, err := js.Stream(ctx, c.config.StreamName)
	if err != nil {
		c.logger.Error("Failed to get stream", "error", err, "stream", c.config.StreamName)
		return
	}

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		FilterSubject: clipboardSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       60 * time.Second,
		MaxDeliver:    3,
	}
	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig)
	if err != nil {
		c.logger.Error("Failed to create consumer", "error", err, "stream", c.config.StreamName, "consumer", c.config.ConsumerName)
		return
	}

	c.logger.Info("Consumer connected", "stream", c.config.StreamName, "consumer", c.config.ConsumerName)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Fetch next message with timeout
		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue // Timeout, try again
		}

		for msg := range msgs.Messages() {
			select {
			case <-ctx.Done():
				// NAK the message so it can be redelivered
				_ = msg.Nak()
				return
			default:
				c.handleMessage(ctx, msg)
			}
		}
	}
}

// handleMessage processes a single clipboard record message.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	var baseMsg message.BaseMessage
	if err := json.Unmarshal(msg.Data(), &baseMsg); err != nil {
		c.logger.Warn("Failed to parse message", "error", err)
		c.errors.Add(1)
		_ = msg.Nak()
		return
	}

	var rec capture.Record
	payloadBytes, err := json.Marshal(baseMsg.Payload())
	if err == nil {
		err = json.Unmarshal(payloadBytes, &rec)
	}
	if err != nil {
		c.logger.Warn("Failed to unmarshal record", "error", err)
		c.errors.Add(1)
		_ = msg.Nak()
		return
	}

	c.processRecord(ctx, rec)
	if err := msg.Ack(); err != nil {
		c.logger.Warn("Failed to ACK message", "error", err)
	}
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
	if c.tailer != nil {
		if err := c.tailer.Stop(); err != nil {
			c.logger.Warn("Failed to stop tailer", "error", err)
		}
	}

	c.running = false
	c.logger.Info("concierge stopped",
		"suggestions_made", c.suggestionsMade.Load(),
		"auto_executed", c.autoExecuted.Load(),
		"skipped", c.skipped.Load(),
		"errors", c.errors.Load())

	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "concierge",
		Type:        "processor",
		Description: "Classifies clipboard captures and suggests actions",
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
	return conciergeSchema
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

// shortID truncates a record ID for log output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// suggestionID builds a unique-per-microsecond suggestion record ID.
func suggestionID(now time.Time) string {
	return fmt.Sprintf("concierge_%s%06d",
		now.Format(suggestionIDLayout), now.Nanosecond()/1000)
}
