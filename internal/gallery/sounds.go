package gallery

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Fixed sound effect file names.
const (
	BackgroundSound = "bgm.mp3"
	ClickSound      = "click.mp3"
	DownloadSound   = "download.mp3"
)

// Sounds holds the three optional sound effects. A nil field means the
// effect file was not present.
type Sounds struct {
	Background *Asset
	Click      *Asset
	Download   *Asset
}

// ByName returns the effect for the short names used in URLs
// ("bgm", "click", "download").
func (s *Sounds) ByName(name string) *Asset {
	if s == nil {
		return nil
	}
	switch name {
	case "bgm":
		return s.Background
	case "click":
		return s.Click
	case "download":
		return s.Download
	}
	return nil
}

// Empty reports whether no effect could be loaded.
func (s *Sounds) Empty() bool {
	return s == nil || (s.Background == nil && s.Click == nil && s.Download == nil)
}

// LoadSounds reads the fixed-name sound effects from dir. A missing dir is
// an ErrMissingDirectory; a missing single file only disables that effect.
func LoadSounds(dir string) (*Sounds, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrMissingDirectory)
		}
		return nil, fmt.Errorf("gallery: sound dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, ErrMissingDirectory)
	}

	s := &Sounds{}
	for _, slot := range []struct {
		name string
		dst  **Asset
	}{
		{BackgroundSound, &s.Background},
		{ClickSound, &s.Click},
		{DownloadSound, &s.Download},
	} {
		asset, err := readAsset(filepath.Join(dir, slot.name), "audio/mpeg")
		if err != nil {
			log.Printf("gallery: sound %s unavailable: %v", slot.name, err)
			continue
		}
		*slot.dst = asset
	}
	return s, nil
}
