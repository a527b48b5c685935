package cmd

import (
	"fmt"

	"github.com/ziadkadry99/slideshow/internal/config"
	"github.com/ziadkadry99/slideshow/internal/server"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `slideshow init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// serverConfig maps the file configuration onto the server's.
func serverConfig(cfg *config.Config) server.Config {
	return server.Config{
		Port:       cfg.Port,
		AllowAll:   cfg.AllowAllOrigins,
		Title:      cfg.Title,
		Height:     cfg.Height,
		ImageDir:   cfg.ImageDir,
		SoundDir:   cfg.SoundDir,
		IntroFile:  cfg.IntroFile,
		Exclude:    cfg.Exclude,
		Player:     cfg.PlayerOptions(),
		SessionTTL: cfg.SessionTimeout(),
		Verbose:    verbose,
	}
}
