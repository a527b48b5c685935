package config

import (
	"time"

	"github.com/ziadkadry99/slideshow/internal/player"
)

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".slideshow.yml"

// DefaultExcludes are file name patterns never shown, even with an image extension.
var DefaultExcludes = []string{
	".*",
	"*~",
}

// DefaultConfig returns a Config with sensible defaults. The player
// defaults reproduce the start-screen variant: 100ms ticks, sound on and
// a separate download button.
func DefaultConfig() *Config {
	return &Config{
		Title:      "Slideshow",
		ImageDir:   "img",
		SoundDir:   "static/sounds",
		Exclude:    append([]string(nil), DefaultExcludes...),
		Height:     750,
		Port:       8080,
		SessionTTL: 600,
		Player: PlayerConfig{
			TickPeriodMS:       100,
			SoundEnabled:       true,
			RequireStartAction: true,
			DownloadOnPause:    false,
		},
	}
}

// PlayerOptions converts the player section into player.Options.
func (c *Config) PlayerOptions() player.Options {
	return player.Options{
		TickPeriod:         time.Duration(c.Player.TickPeriodMS) * time.Millisecond,
		SoundEnabled:       c.Player.SoundEnabled,
		RequireStartAction: c.Player.RequireStartAction,
		DownloadOnPause:    c.Player.DownloadOnPause,
	}
}

// SessionTimeout returns how long a rendered page may wait before its
// player connects.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}
