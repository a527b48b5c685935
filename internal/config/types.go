package config

// Config is the top-level slideshow configuration, corresponding to .slideshow.yml.
type Config struct {
	Title           string       `yaml:"title" koanf:"title" validate:"required"`
	ImageDir        string       `yaml:"image_dir" koanf:"image_dir" validate:"required"`
	SoundDir        string       `yaml:"sound_dir" koanf:"sound_dir"`
	IntroFile       string       `yaml:"intro_file" koanf:"intro_file"`
	Exclude         []string     `yaml:"exclude" koanf:"exclude"`
	Height          int          `yaml:"height" koanf:"height" validate:"gte=100,lte=4000"`
	Port            int          `yaml:"port" koanf:"port" validate:"gte=0,lte=65535"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	SessionTTL      int          `yaml:"session_ttl_seconds" koanf:"session_ttl_seconds" validate:"gte=0"`
	Player          PlayerConfig `yaml:"player" koanf:"player"`
}

// PlayerConfig selects which slideshow behaviour the page exposes.
type PlayerConfig struct {
	TickPeriodMS       int  `yaml:"tick_period_ms" koanf:"tick_period_ms" validate:"gte=20,lte=60000"`
	SoundEnabled       bool `yaml:"sound_enabled" koanf:"sound_enabled"`
	RequireStartAction bool `yaml:"require_start_action" koanf:"require_start_action"`
	DownloadOnPause    bool `yaml:"download_on_pause" koanf:"download_on_pause"`
}
