package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/audit"
	"mercator-hq/solace/pkg/audit/retention"
	"mercator-hq/solace/pkg/audit/storage"
	"mercator-hq/solace/pkg/cli"
	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/conversation"
	"mercator-hq/solace/pkg/providerfactory"
	"mercator-hq/solace/pkg/providers"
	"mercator-hq/solace/pkg/safety"
	"mercator-hq/solace/pkg/security/auth"
	"mercator-hq/solace/pkg/server"
	"mercator-hq/solace/pkg/telemetry/health"
	"mercator-hq/solace/pkg/telemetry/logging"
	"mercator-hq/solace/pkg/telemetry/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the chat proxy",
	Long: `Start the chat proxy server.

The server listens on server.listen_address (or :$PORT) and serves:
  POST /chat     send a message, receive the reply
  POST /clear    reset the conversation
  GET  /health   liveness
  GET  /ready    readiness
  GET  /version  build information
  GET  /metrics  Prometheus metrics

Examples:
  # Start with solace.yaml and .env from the working directory
  solace run

  # Start with an explicit config file
  solace run --config /etc/solace/solace.yaml

  # Start from the environment only
  PORT=8080 OPENAI_API_KEY=sk-... SECRET_KEY=abc123 solace run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	slog.SetDefault(logger)

	p := cli.NewPrinter(cmd.OutOrStdout())
	printBanner(p, cfg, path)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	provider, err := providerfactory.NewFromConfig(ctx, cfg.Provider)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer provider.Close()
	p.Success("Provider %s ready (model %s)", provider.GetType(), cfg.Provider.Model)

	validator := auth.NewSecretValidator(cfg.Auth.Secret, cfg.Auth.SecretHash)
	screen := safety.NewScreen(safety.Options{
		CrisisDetection: cfg.Safety.CrisisDetection,
		Keywords:        cfg.Safety.CrisisKeywords,
		Disclaimer:      cfg.Safety.Disclaimer,
	})

	checker := health.New(0)
	checker.RegisterCheck("provider", provider.HealthCheck)

	var observers []conversation.Observer

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
		observers = append(observers, collector)
		if cfg.Provider.HealthCheckInterval > 0 {
			go pollProviderHealth(ctx, provider, collector, cfg.Provider.HealthCheckInterval)
		}
	}

	if cfg.Audit.Enabled {
		store, err := storage.New(&cfg.Audit)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open audit storage: %w", err))
		}
		defer store.Close()

		// Deferred after the store, so the buffer drains before the store closes
		recorder := audit.NewRecorder(store, audit.RecorderConfig{BufferSize: cfg.Audit.BufferSize})
		defer recorder.Close()

		observers = append(observers, recorder)
		checker.RegisterCheck("audit_storage", store.Ping)

		scheduler := retention.NewPruner(store, retention.FromConfig(cfg.Audit.Retention)).Scheduler()
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("failed to start audit retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				logger.Debug("audit retention scheduler started", "next_run", next)
			}
		}
		p.Success("Audit trail enabled (%s)", cfg.Audit.Backend)
	}

	svc, err := conversation.NewService(conversation.Options{
		Provider:           provider,
		Authorizer:         validator,
		Model:              cfg.Provider.Model,
		SystemPrompt:       cfg.Conversation.SystemPrompt,
		MaxTurns:           cfg.Conversation.MaxTurns,
		PreserveSystemTurn: cfg.Conversation.PreserveSystemTurn,
		Screen:             screen,
		Observers:          observers,
		Logger:             logger,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	if cfg.Watch {
		if path == "" {
			p.Warn("watch enabled but no config file to watch")
		} else if err := startWatcher(ctx, path, logger, validator); err != nil {
			logger.Warn("config watcher not started", "error", err)
		}
	}

	srv, err := server.New(&cfg.Server, server.Options{
		Conversation: svc,
		Checker:      checker,
		Metrics:      collector,
		MetricsPath:  cfg.Telemetry.Metrics.Path,
		AuthHeader:   cfg.Auth.Header,
		Disclaimer:   screen.Disclaimer(),
		Version:      Version,
		Commit:       GitCommit,
		BuildDate:    BuildDate,
		Logger:       logger,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	}

	p.Success("Server listening on %s", srv.Addr())
	p.Field("Chat endpoint", "POST http://"+srv.Addr()+"/chat")
	p.Field("Health endpoint", "http://"+srv.Addr()+"/health")
	if collector != nil {
		p.Field("Metrics endpoint", "http://"+srv.Addr()+cfg.Telemetry.Metrics.Path)
	}
	p.Println("\nPress Ctrl+C to stop")

	if err := <-errChan; err != nil {
		return cli.NewCommandError("run", err)
	}
	st := svc.Stats()
	logger.Info("final transcript state",
		"turns", st.Turns,
		"exchanges", st.Exchanges,
		"has_system_turn", st.HasSystemTurn,
	)
	p.Success("Server stopped")
	return nil
}

// startWatcher reloads the config file on change and applies a new shared
// secret to the running validator. Other changes need a restart.
func startWatcher(ctx context.Context, path string, logger *slog.Logger, validator *auth.SecretValidator) error {
	w, err := config.NewWatcher(path, logger, func(c *config.Config) {
		validator.Rotate(c.Auth.Secret, c.Auth.SecretHash)
		logger.Info("shared secret reloaded")
	})
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
	return nil
}

// pollProviderHealth publishes provider reachability as a gauge.
func pollProviderHealth(ctx context.Context, provider providers.Provider, collector *metrics.Collector, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		err := provider.HealthCheck(checkCtx)
		cancel()
		collector.UpdateProviderHealth(provider.GetName(), err == nil)
		if err != nil && ctx.Err() == nil {
			slog.Debug("provider health check failed", "provider", provider.GetName(), "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func printBanner(p *cli.Printer, cfg *config.Config, path string) {
	p.Println("Solace " + Version)
	if path == "" {
		p.Warn("No config file found, using defaults and environment")
	} else {
		p.Success("Configuration loaded from %s", path)
	}

	slog.Debug("conversation settings",
		"max_turns", cfg.Conversation.MaxTurns,
		"preserve_system_turn", cfg.Conversation.PreserveSystemTurn,
	)
	if cfg.Safety.CrisisDetection {
		slog.Debug("crisis screen enabled", "keywords", len(cfg.Safety.CrisisKeywords))
	}
}
