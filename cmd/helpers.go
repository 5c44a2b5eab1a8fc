package cmd

import (
	"fmt"

	"github.com/ziadkadry99/direktor/internal/config"
	"github.com/ziadkadry99/direktor/internal/logger"
)

// loadConfig loads and validates the config, then applies its log settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `direktor init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	opts := logger.Options{
		Format: string(cfg.Log.Format),
		Level:  cfg.Log.Level,
	}
	if verbose {
		opts.Level = "debug"
	}
	logger.Configure(opts)

	return cfg, nil
}
