// Package cli wires configuration, logging and the subcommands of my.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"my/internal/config"
	applog "my/internal/log"
)

// SetupLogger initializes structured logging on stderr from the configured
// level and format, and makes it the default logger.
func SetupLogger(cfg *config.Config) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	logger.WithComponent(applog.ComponentConfig).Debug("Logger initialized",
		applog.FieldOperation, applog.OpStartup,
		"level", level.String(),
		"format", cfg.LogFormat)
	return logger, nil
}

// LoadEnvFile loads the named env files, or .env when none are given.
// A missing file is not an error; a malformed one is.
func LoadEnvFile(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
// The returned stop function releases the signal handler.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
