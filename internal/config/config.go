package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nesting levels: SLIDESHOW_PLAYER__TICK_PERIOD_MS -> player.tick_period_ms.
const EnvPrefix = "SLIDESHOW_"

var validate = validator.New()

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SLIDESHOW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check (value %v)", fieldKey(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}

	if c.Player.SoundEnabled && c.SoundDir == "" {
		return fmt.Errorf("sound_dir is required when player.sound_enabled is set")
	}

	for _, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude patterns must not be empty")
		}
	}

	return nil
}

// fieldKey turns a validator namespace such as "Config.Player.TickPeriodMS"
// into the YAML key users see.
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if key, ok := yamlKeys[p]; ok {
			parts[i] = key
		} else {
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

var yamlKeys = map[string]string{
	"ImageDir":           "image_dir",
	"SoundDir":           "sound_dir",
	"IntroFile":          "intro_file",
	"AllowAllOrigins":    "allow_all_origins",
	"SessionTTL":         "session_ttl_seconds",
	"TickPeriodMS":       "tick_period_ms",
	"SoundEnabled":       "sound_enabled",
	"RequireStartAction": "require_start_action",
	"DownloadOnPause":    "download_on_pause",
}
