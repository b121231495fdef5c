package cmd

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/edugen/internal/config"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `edugen init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// app is a loaded config, its logger and a fully wired runtime.
type app struct {
	cfg *config.Config
	log *logger.Logger
	rt  *workspace.Runtime
}

// openApp loads config and opens the runtime. The caller must Close it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	rt, err := workspace.Open(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, rt: rt}, nil
}

func (a *app) Close() {
	if err := a.rt.Close(); err != nil {
		a.log.Warn("closing runtime", "error", err)
	}
	a.log.Sync()
}

// openStorage opens the account and history stores without any provider.
func openStorage() (*workspace.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return workspace.OpenStorage(cfg)
}
