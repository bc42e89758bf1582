// Package main provides the memoryos binary entry point.
// MemoryOS is a local-first data collection layer that captures
// clipboard activity and calendar events into a standardized metadata
// store and suggests actions for captured content.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/memoryos/config"
	calendarwatcher "github.com/c360studio/memoryos/processor/calendar-watcher"
	clipboardwatcher "github.com/c360studio/memoryos/processor/clipboard-watcher"
	"github.com/c360studio/memoryos/processor/concierge"
	"github.com/c360studio/semstreams/component"
	sconfig "github.com/c360studio/semstreams/config"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "memoryos"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "memoryos",
		Short: "Local-first data collection layer",
		Long: `MemoryOS captures clipboard activity and calendar events into
an append-only metadata store, classifies captured content, and
suggests (or executes) follow-up actions.

It provides:
- Clipboard watching (text, URLs, images, file lists)
- Google Calendar event capture
- Rule-based intent classification with action suggestions

Components publish capture records over NATS when a broker is
configured and run store-only when it is not.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	// One-shot analysis command
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify the clipboard backlog once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(configPath, logLevel)
		},
	}
	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	analyzeCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.AddCommand(analyzeCmd)

	return cmd
}

func run(configPath, logLevel string) error {
	printBanner()

	logger := setupLogger(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	// NATS is optional; without it the watchers run store-only.
	natsClient, err := connectToNATS(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if natsClient != nil {
		defer natsClient.Close(ctx)
		if err := ensureStreams(ctx, natsClient, logger); err != nil {
			return err
		}
	} else {
		logger.Info("No NATS URL configured, running store-only")
	}

	// Create and populate component registry
	componentRegistry := component.NewRegistry()
	if err := clipboardwatcher.Register(componentRegistry); err != nil {
		return fmt.Errorf("register clipboard-watcher: %w", err)
	}
	if err := calendarwatcher.Register(componentRegistry); err != nil {
		return fmt.Errorf("register calendar-watcher: %w", err)
	}
	if err := concierge.Register(componentRegistry); err != nil {
		return fmt.Errorf("register concierge: %w", err)
	}

	deps := component.Dependencies{
		NATSClient: natsClient,
		Logger:     logger,
	}

	components, err := buildComponents(cfg, deps)
	if err != nil {
		return err
	}

	slog.Info("MemoryOS ready",
		"version", Version,
		"data_dir", cfg.Data.BaseDir,
		"components", len(components))

	// Setup signal handling
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	started, err := startComponents(signalCtx, components, logger)
	if err != nil {
		stopComponents(started, logger)
		return err
	}
	slog.Info("All components started")

	// Block until shutdown signal
	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	stopComponents(started, logger)
	slog.Info("MemoryOS shutdown complete")
	return nil
}

// analyze runs the concierge once over the clipboard backlog.
func analyze(configPath, logLevel string) error {
	logger := setupLogger(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	raw, err := conciergeConfig(cfg)
	if err != nil {
		return err
	}
	comp, err := concierge.NewComponent(raw, component.Dependencies{Logger: logger})
	if err != nil {
		return fmt.Errorf("create concierge: %w", err)
	}
	c, ok := comp.(*concierge.Component)
	if !ok {
		return fmt.Errorf("unexpected component type %T", comp)
	}
	if err := c.Initialize(); err != nil {
		return fmt.Errorf("initialize concierge: %w", err)
	}

	made, err := c.RunOnce(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Analyzed clipboard backlog: %d suggestions\n", made)
	return nil
}

// buildComponents instantiates the configured processors.
func buildComponents(cfg *config.Config, deps component.Dependencies) ([]component.Discoverable, error) {
	var components []component.Discoverable

	clipboardJSON, err := json.Marshal(map[string]any{
		"data_dir":       cfg.Data.BaseDir,
		"poll_interval":  cfg.Clipboard.PollInterval,
		"dedup_window":   cfg.Clipboard.DedupWindow,
		"preview_length": cfg.Clipboard.PreviewLength,
		"copy_excludes":  cfg.Clipboard.CopyExcludes,
		"enrich_urls":    cfg.Clipboard.EnrichURLs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal clipboard-watcher config: %w", err)
	}
	clipboard, err := clipboardwatcher.NewComponent(clipboardJSON, deps)
	if err != nil {
		return nil, fmt.Errorf("create clipboard-watcher: %w", err)
	}
	components = append(components, clipboard)

	if cfg.Calendar.Enabled {
		calendarJSON, err := json.Marshal(map[string]any{
			"data_dir":         cfg.Data.BaseDir,
			"credentials_path": cfg.Calendar.CredentialsPath,
			"token_path":       cfg.Calendar.TokenPath,
			"poll_interval":    cfg.Calendar.PollInterval,
			"lookahead":        cfg.Calendar.Lookahead,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal calendar-watcher config: %w", err)
		}
		calendar, err := calendarwatcher.NewComponent(calendarJSON, deps)
		if err != nil {
			return nil, fmt.Errorf("create calendar-watcher: %w", err)
		}
		components = append(components, calendar)
	}

	conciergeJSON, err := conciergeConfig(cfg)
	if err != nil {
		return nil, err
	}
	conciergeComp, err := concierge.NewComponent(conciergeJSON, deps)
	if err != nil {
		return nil, fmt.Errorf("create concierge: %w", err)
	}
	components = append(components, conciergeComp)

	return components, nil
}

func conciergeConfig(cfg *config.Config) (json.RawMessage, error) {
	raw, err := json.Marshal(map[string]any{
		"data_dir":       cfg.Data.BaseDir,
		"poll_interval":  cfg.Concierge.PollInterval,
		"auto_execute":   cfg.Concierge.AutoExecute,
		"min_confidence": cfg.Concierge.MinConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal concierge config: %w", err)
	}
	return raw, nil
}

// startComponents initializes and starts each component in order,
// returning the ones that started.
func startComponents(ctx context.Context, components []component.Discoverable, logger *slog.Logger) ([]component.Discoverable, error) {
	var started []component.Discoverable
	for _, comp := range components {
		meta := comp.Meta()
		if err := comp.Initialize(); err != nil {
			return started, fmt.Errorf("initialize %s: %w", meta.Name, err)
		}
		if err := comp.Start(ctx); err != nil {
			return started, fmt.Errorf("start %s: %w", meta.Name, err)
		}
		logger.Info("Component started", "name", meta.Name)
		started = append(started, comp)
	}
	return started, nil
}

// stopComponents stops components in reverse start order.
func stopComponents(components []component.Discoverable, logger *slog.Logger) {
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		meta := comp.Meta()
		if err := comp.Stop(30 * time.Second); err != nil {
			logger.Error("Error stopping component", "name", meta.Name, "error", err)
		} else {
			logger.Info("Component stopped", "name", meta.Name)
		}
	}
}

func setupLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg := config.DefaultConfig()
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return config.NewLoader(logger).Load()
}

func connectToNATS(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	natsURL := cfg.NATS.URL

	// Environment variable override takes precedence
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		natsURL = envURL
	} else if envURL := os.Getenv("MEMORYOS_NATS_URL"); envURL != "" {
		natsURL = envURL
	}
	if natsURL == "" {
		return nil, nil
	}

	logger.Info("Connecting to NATS", "url", natsURL)

	client, err := natsclient.NewClient(natsURL,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithHealthInterval(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, natsURL)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, natsURL)
	}

	logger.Info("Connected to NATS", "url", natsURL)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or leave nats.url empty to run store-only.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// ensureStreams creates the CAPTURE stream carrying all capture records.
func ensureStreams(ctx context.Context, natsClient *natsclient.Client, logger *slog.Logger) error {
	logger.Debug("Creating JetStream streams")

	streamsManager := sconfig.NewStreamsManager(natsClient, logger)
	cfg := &sconfig.Config{
		Version: "1.0.0",
		Streams: sconfig.StreamConfigs{
			"CAPTURE": sconfig.StreamConfig{
				Subjects: []string{"capture.>"},
				MaxAge:   "168h",
				Storage:  "file",
				Replicas: 1,
			},
		},
	}
	if err := streamsManager.EnsureStreams(ctx, cfg); err != nil {
		return fmt.Errorf("ensure streams: %w", err)
	}

	logger.Debug("JetStream streams ready")
	return nil
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║            MemoryOS v" + Version + "                    ║")
	fmt.Println("║        Local Data Collection Layer            ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}
