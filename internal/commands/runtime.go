package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diogo/mcchat/internal/api"
	"github.com/diogo/mcchat/internal/chat"
	"github.com/diogo/mcchat/internal/config"
	"github.com/diogo/mcchat/internal/render"
	"github.com/diogo/mcchat/internal/telemetry"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	endpoint  string
	logLevel  string
	companion bool
	restrict  bool
	timeout   time.Duration
}

// runtime is the per-invocation setup: config, logger, telemetry and the chat client
type runtime struct {
	cfg       config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	client    api.ChatClient

	closers []func() error
}

// loadRuntime reads the config file, applies flag overrides and builds the
// logger, telemetry and client. Callers must call close.
func loadRuntime(ctx context.Context, flags globalFlags, changed func(name string) bool, deps *Dependencies) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(&cfg, flags, changed)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{cfg: cfg}

	logger, closeLog, err := telemetry.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	rt.logger = logger
	rt.closers = append(rt.closers, closeLog)

	provider, err := telemetry.Init(ctx, cfg.Telemetry, Version)
	if err != nil {
		_ = rt.close()
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	rt.telemetry = provider
	rt.closers = append(rt.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return provider.Shutdown(shutdownCtx)
	})

	if deps.Client != nil {
		rt.client = deps.Client
	} else {
		opts := []api.ClientOption{
			api.WithLogger(logger),
			api.WithTelemetry(provider),
		}
		// The flag keeps its exact duration; the config only holds seconds.
		if changed("timeout") && flags.timeout > 0 {
			opts = append(opts, api.WithTimeout(flags.timeout))
		}
		client, err := api.NewClientFromConfig(cfg, opts...)
		if err != nil {
			_ = rt.close()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		rt.client = client
		rt.closers = append(rt.closers, func() error {
			client.Close()
			return nil
		})
	}

	logger.Debug("runtime ready",
		"endpoint", rt.client.Endpoint(),
		"companion_mode", cfg.CompanionMode,
		"restrict_scope", cfg.RestrictScope,
		"telemetry", cfg.Telemetry.Enabled)
	return rt, nil
}

// applyFlags overrides config values with flags the user set explicitly
func applyFlags(cfg *config.Config, flags globalFlags, changed func(name string) bool) {
	if changed("endpoint") {
		cfg.Endpoint = flags.endpoint
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("companion") {
		cfg.CompanionMode = flags.companion
	}
	if changed("restrict-scope") {
		cfg.RestrictScope = flags.restrict
	}
	if changed("timeout") {
		cfg.TimeoutSeconds = timeoutSeconds(flags.timeout)
	}
}

func (rt *runtime) newSession() *chat.Session {
	return chat.New(rt.client, chat.WithLogger(rt.logger))
}

func (rt *runtime) renderOptions(width int) render.Options {
	return render.OptionsFromConfig(rt.cfg.Markdown).WithWidth(width)
}

// close releases everything in reverse order of creation
func (rt *runtime) close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
