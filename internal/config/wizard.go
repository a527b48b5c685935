package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// variants maps the menu entries of the wizard to player presets.
var variants = []struct {
	Label  string
	Player PlayerConfig
}{
	{"start screen, sound, download button (100ms)", PlayerConfig{TickPeriodMS: 100, SoundEnabled: true, RequireStartAction: true}},
	{"start screen, sound, download on pause (100ms)", PlayerConfig{TickPeriodMS: 100, SoundEnabled: true, RequireStartAction: true, DownloadOnPause: true}},
	{"autoplay, silent, download on pause (200ms)", PlayerConfig{TickPeriodMS: 200, DownloadOnPause: true}},
	{"autoplay, silent, download button (200ms)", PlayerConfig{TickPeriodMS: 200}},
	{"autoplay, sound, download button (100ms)", PlayerConfig{TickPeriodMS: 100, SoundEnabled: true}},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to slideshow! Let's configure your gallery.")
	fmt.Println()

	cfg := DefaultConfig()

	titlePrompt := promptui.Prompt{
		Label:   "Page title",
		Default: cfg.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	cfg.Title = title

	dirPrompt := promptui.Prompt{
		Label:   "Image directory",
		Default: cfg.ImageDir,
	}
	imageDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}
	cfg.ImageDir = imageDir
	if _, err := os.Stat(imageDir); os.IsNotExist(err) {
		fmt.Printf("Note: %s does not exist yet; create it before running slideshow serve.\n", imageDir)
	}

	labels := make([]string, len(variants))
	for i, v := range variants {
		labels[i] = v.Label
	}
	variantPrompt := promptui.Select{
		Label: "Select player behaviour",
		Items: labels,
	}
	idx, _, err := variantPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("player selection: %w", err)
	}
	cfg.Player = variants[idx].Player

	if cfg.Player.SoundEnabled {
		soundPrompt := promptui.Prompt{
			Label:   "Sound directory (bgm.mp3, click.mp3, download.mp3)",
			Default: cfg.SoundDir,
		}
		soundDir, err := soundPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("sound dir: %w", err)
		}
		cfg.SoundDir = soundDir
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
