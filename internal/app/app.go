package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"vacancycli/internal/config"
	"vacancycli/internal/infrastructure"
)

// Application owns the configuration, logger, telemetry and runner of one process
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Runner        *Runner
}

// NewApplication loads configuration and wires logging, telemetry and the pipeline.
// The report summary is printed to stdout.
func NewApplication(stdout io.Writer) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg, stdout)
}

// NewApplicationWithConfig is NewApplication with an already loaded configuration
func NewApplicationWithConfig(cfg *config.Config, stdout io.Writer) (*Application, error) {
	logCfg := cfg.Logging
	logCfg.FilePath = cfg.LogFilePath()

	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("format", cfg.Report.Format))

	if logCfg.Output != "console" {
		paths, err := config.GetPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get paths: %w", err)
		}
		paths.LogPathResolution(logger)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	runner, err := NewRunner(cfg, providers, logger, stdout)
	if err != nil {
		providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Runner:        runner,
	}, nil
}

// Run executes one report run
func (a *Application) Run(ctx context.Context, opts Options) (*Result, error) {
	return a.Runner.Run(ctx, opts)
}

// Stop flushes telemetry, writes the metrics file if configured and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	var firstErr error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Telemetry shutdown failed")
			firstErr = err
		}
	}
	a.Logger.InfoContext(ctx, "Application stopped")
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
