// Package clipboardwatcher provides a component that polls the system
// clipboard and appends text, URL, image, and file-list captures to the
// metadata store.
package clipboardwatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/memoryos/capture"
	"github.com/c360studio/memoryos/source/clipboard"
	"github.com/c360studio/memoryos/source/htmlconv"
	"github.com/c360studio/memoryos/source/weburl"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
)

// recordSubject is the subject clipboard records are published to.
const recordSubject = "capture.record.clipboard"

// fileTimestampLayout names saved images and file lists.
const fileTimestampLayout = "20060102_150405.000000"

// Component implements the clipboard-watcher processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger

	source    clipboard.Source
	store     *capture.Store
	dedup     *capture.Deduplicator
	converter *htmlconv.Converter
	enricher  *weburl.Enricher

	imagesDir      string
	filesDir       string
	copiedFilesDir string

	// Change detection across polls. Dedup handles window suppression;
	// these skip rehashing unchanged clipboard state every cycle.
	lastText      string
	lastImageHash string
	lastFilesHash string

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Metrics
	recordsCaptured atomic.Int64
	duplicates      atomic.Int64
	errors          atomic.Int64
	lastActivityMu  sync.RWMutex
	lastActivity    time.Time
}

// NewComponent creates a new clipboard-watcher processor component.
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
	if config.DedupWindow == 0 {
		config.DedupWindow = defaults.DedupWindow
	}
	if config.PreviewLength == 0 {
		config.PreviewLength = defaults.PreviewLength
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Component{
		name:           "clipboard-watcher",
		config:         config,
		natsClient:     deps.NATSClient,
		logger:         deps.GetLogger(),
		source:         clipboard.System(),
		dedup:          capture.NewDeduplicator(config.DedupWindow),
		converter:      htmlconv.NewConverter(),
		imagesDir:      filepath.Join(config.DataDir, "images"),
		filesDir:       filepath.Join(config.DataDir, "files"),
		copiedFilesDir: filepath.Join(config.DataDir, "copied_files"),
	}
	if config.EnrichURLs {
		c.enricher = weburl.NewEnricher(0)
	}

	return c, nil
}

// Initialize prepares the component's directories and metadata store.
func (c *Component) Initialize() error {
	for _, dir := range []string{c.imagesDir, c.filesDir, c.copiedFilesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := capture.NewStore(filepath.Join(c.config.DataDir, "clipboard_metadata.json"))
	if err != nil {
		return fmt.Errorf("create metadata store: %w", err)
	}
	c.store = store

	c.logger.Debug("Initialized clipboard-watcher",
		"data_dir", c.config.DataDir,
		"poll_interval", c.config.PollInterval,
		"dedup_window", c.config.DedupWindow)
	return nil
}

// Start begins polling the clipboard.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.store == nil {
		c.mu.Unlock()
		return fmt.Errorf("component not initialized")
	}

	c.running = true
	c.startTime = time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go c.pollLoop(runCtx)

	c.logger.Info("clipboard-watcher started",
		"poll_interval", c.config.PollInterval,
		"store", c.store.Path(),
		"publishing", c.natsClient != nil)

	return nil
}

// pollLoop samples the clipboard on a ticker.
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

// pollOnce checks the clipboard a single time. Files take priority, then
// images, then text. Screenshots put both an image and text on the
// clipboard, so an image capture suppresses text capture that cycle.
func (c *Component) pollOnce(ctx context.Context) {
	c.checkFiles(ctx)

	imageCaptured := c.checkImage(ctx)

	if !imageCaptured {
		c.checkText(ctx)
	}
}

func (c *Component) checkFiles(ctx context.Context) {
	files, err := c.source.Files()
	if err != nil {
		if !errors.Is(err, clipboard.ErrUnavailable) && !errors.Is(err, clipboard.ErrNoContent) {
			c.errors.Add(1)
			capture.DefaultMetrics().SourceError(capture.SourceClipboard)
		}
		return
	}
	if len(files) == 0 {
		return
	}

	hash := filesHash(files)
	if hash == c.lastFilesHash {
		return
	}
	c.lastFilesHash = hash

	c.captureFiles(ctx, files, hash)
}

func (c *Component) checkImage(ctx context.Context) bool {
	data, width, height, err := c.source.Image()
	if err != nil {
		if !errors.Is(err, clipboard.ErrUnavailable) && !errors.Is(err, clipboard.ErrNoContent) {
			c.errors.Add(1)
			capture.DefaultMetrics().SourceError(capture.SourceClipboard)
		}
		return false
	}
	if len(data) == 0 {
		return false
	}

	hash := capture.ContentHash(data)
	if hash == c.lastImageHash {
		return false
	}
	// Always advance the hash so an unchanged image is not rehashed every
	// poll; the deduplicator handles actual duplicate suppression.
	c.lastImageHash = hash

	return c.captureImage(ctx, data, width, height, hash)
}

func (c *Component) checkText(ctx context.Context) {
	text, err := c.source.Text()
	if err != nil {
		if !errors.Is(err, clipboard.ErrUnavailable) && !errors.Is(err, clipboard.ErrNoContent) {
			c.errors.Add(1)
			capture.DefaultMetrics().SourceError(capture.SourceClipboard)
		}
		return
	}
	if text == "" || text == c.lastText {
		return
	}
	c.lastText = text

	if weburl.IsURLOnly(text) {
		c.captureURL(ctx, strings.TrimSpace(text))
		return
	}
	c.captureText(ctx, text)
}

func (c *Component) captureText(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	hash := capture.ContentHash([]byte(text))
	if c.dedup.Seen(hash) {
		c.duplicates.Add(1)
		capture.DefaultMetrics().DuplicateSuppressed(capture.SourceClipboard)
		return
	}

	preview := text
	if htmlconv.LooksLikeHTML(text) {
		if _, markdown, err := c.converter.Convert(text); err == nil && markdown != "" {
			preview = markdown
		}
	}

	rec := capture.Record{
		ID:             hash,
		Timestamp:      time.Now(),
		ContentType:    capture.ContentTypeText,
		ContentPreview: capture.Preview(preview, c.previewLength()),
		Source:         capture.SourceClipboard,
	}
	c.appendAndPublish(ctx, rec)
}

func (c *Component) captureURL(ctx context.Context, url string) {
	hash := capture.ContentHash([]byte(url))
	if c.dedup.Seen(hash) {
		c.duplicates.Add(1)
		capture.DefaultMetrics().DuplicateSuppressed(capture.SourceClipboard)
		return
	}

	preview := url
	if c.enricher != nil {
		// Enrichment failure never fails the capture.
		if info, err := c.enricher.Fetch(ctx, url); err == nil && info.Title != "" {
			preview = url + " (" + info.Title + ")"
		} else if err != nil {
			c.logger.Debug("URL enrichment failed", "url", url, "error", err)
		}
	}

	rec := capture.Record{
		ID:             hash,
		Timestamp:      time.Now(),
		ContentType:    capture.ContentTypeURL,
		ContentPreview: capture.Preview(preview, c.previewLength()),
		Source:         capture.SourceClipboard,
	}
	c.appendAndPublish(ctx, rec)
}

func (c *Component) captureImage(ctx context.Context, data []byte, width, height int, hash string) bool {
	if c.dedup.Seen(hash) {
		c.duplicates.Add(1)
		capture.DefaultMetrics().DuplicateSuppressed(capture.SourceClipboard)
		return false
	}

	filename := "clip_" + time.Now().Format(fileTimestampLayout) + ".png"
	path := filepath.Join(c.imagesDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.logger.Error("Failed to save clipboard image", "path", path, "error", err)
		c.errors.Add(1)
		return false
	}

	rec := capture.Record{
		ID:          hash,
		Timestamp:   time.Now(),
		ContentType: capture.ContentTypeImage,
		ContentPreview: fmt.Sprintf("Image captured (%dx%d, %d bytes)",
			width, height, len(data)),
		FilePath: relPath(c.config.DataDir, path),
		Source:   capture.SourceClipboard,
		ImageInfo: &capture.ImageInfo{
			Width:     width,
			Height:    height,
			Format:    "PNG",
			SizeBytes: int64(len(data)),
		},
	}
	c.appendAndPublish(ctx, rec)
	return true
}

func (c *Component) captureFiles(ctx context.Context, files []string, hash string) {
	if c.dedup.Seen(hash) {
		c.duplicates.Add(1)
		capture.DefaultMetrics().DuplicateSuppressed(capture.SourceClipboard)
		return
	}

	// Save the raw file list for downstream indexers.
	listPath := filepath.Join(c.filesDir, "files_"+time.Now().Format(fileTimestampLayout)+".json")
	listData, err := json.MarshalIndent(fileList{
		Timestamp: time.Now().Format(time.RFC3339),
		FilePaths: files,
		Count:     len(files),
	}, "", "  ")
	if err == nil {
		err = os.WriteFile(listPath, listData, 0o644)
	}
	if err != nil {
		c.logger.Error("Failed to save file list", "path", listPath, "error", err)
		c.errors.Add(1)
		return
	}

	copied := copyFiles(files, c.copiedFilesDir, c.config.CopyExcludes, c.config.DataDir, c.logger)

	rec := capture.Record{
		ID:             hash,
		Timestamp:      time.Now(),
		ContentType:    capture.ContentTypeFiles,
		ContentPreview: "Files copied: " + filesPreview(files),
		FilePath:       relPath(c.config.DataDir, listPath),
		CopiedFiles:    copied,
		Source:         capture.SourceClipboard,
	}
	c.appendAndPublish(ctx, rec)
}

// appendAndPublish writes the record to the local store and, when a NATS
// client is available, publishes it to the capture stream.
func (c *Component) appendAndPublish(ctx context.Context, rec capture.Record) {
	c.updateLastActivity()

	if err := c.store.Append(rec); err != nil {
		c.logger.Error("Failed to append record", "id", rec.ID, "error", err)
		c.errors.Add(1)
		return
	}

	c.recordsCaptured.Add(1)
	capture.DefaultMetrics().RecordCaptured(capture.SourceClipboard, rec.ContentType)
	c.logger.Info("Captured clipboard content",
		"content_type", rec.ContentType,
		"id", rec.ID[:12])

	if c.natsClient == nil {
		return
	}

	msg := message.NewBaseMessage(capture.RecordType, &rec, c.name)
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("Failed to marshal record message", "id", rec.ID, "error", err)
		return
	}
	if err := c.natsClient.PublishToStream(ctx, recordSubject, data); err != nil {
		c.logger.Warn("Failed to publish record", "id", rec.ID, "error", err)
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

	c.running = false
	c.logger.Info("clipboard-watcher stopped",
		"records_captured", c.recordsCaptured.Load(),
		"duplicates_suppressed", c.duplicates.Load(),
		"errors", c.errors.Load())

	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "clipboard-watcher",
		Type:        "processor",
		Description: "Polls the system clipboard and captures text, URLs, images, and file lists",
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
	return clipboardWatcherSchema
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

// previewLength returns the configured preview cap, defaulting when unset.
func (c *Component) previewLength() int {
	if c.config.PreviewLength > 0 {
		return c.config.PreviewLength
	}
	return capture.PreviewLength
}

// fileList is the on-disk shape of a saved clipboard file list.
type fileList struct {
	Timestamp string   `json:"timestamp"`
	FilePaths []string `json:"file_paths"`
	Count     int      `json:"count"`
}

// filesHash derives a stable hash from a file list regardless of order.
func filesHash(files []string) string {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)
	return capture.ContentHash([]byte(strings.Join(sorted, "\x00")))
}

// filesPreview lists the first three paths and summarizes the rest.
func filesPreview(files []string) string {
	head := files
	if len(head) > 3 {
		head = head[:3]
	}
	preview := strings.Join(head, ", ")
	if len(files) > 3 {
		preview += fmt.Sprintf(" ... and %d more", len(files)-3)
	}
	return preview
}

// relPath returns path relative to base, falling back to the input.
func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
