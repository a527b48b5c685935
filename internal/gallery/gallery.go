// Package gallery loads the images (and optional sound effects) a
// slideshow displays, and encodes them for inlining.
package gallery

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrMissingDirectory is returned when the asset directory does not exist.
	ErrMissingDirectory = errors.New("directory not found")
	// ErrNoMatchingAssets is returned when the directory holds no usable image.
	ErrNoMatchingAssets = errors.New("no matching images")
)

// Asset is one file loaded into memory.
type Asset struct {
	ID        string // Short SHA-256 prefix of the content.
	Name      string // Original file name, used for display and download.
	MediaType string
	Data      []byte

	once    sync.Once
	dataURI string
}

// Size returns the content length in bytes.
func (a *Asset) Size() int64 { return int64(len(a.Data)) }

// DataURI returns the content as a base64 data URI. The encoding is
// computed on first use and reused afterwards.
func (a *Asset) DataURI() string {
	a.once.Do(func() {
		a.dataURI = "data:" + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
	})
	return a.dataURI
}

// Gallery is the shuffled, read-only sequence of images for one session.
type Gallery struct {
	Dir    string
	Assets []*Asset
}

// Len returns the number of assets.
func (g *Gallery) Len() int { return len(g.Assets) }

// At returns the asset at index i, or nil when i is out of range.
func (g *Gallery) At(i int) *Asset {
	if i < 0 || i >= len(g.Assets) {
		return nil
	}
	return g.Assets[i]
}

// Find returns the first asset with the given ID.
func (g *Gallery) Find(id string) (*Asset, bool) {
	for _, a := range g.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Names returns the asset file names in display order.
func (g *Gallery) Names() []string {
	names := make([]string, len(g.Assets))
	for i, a := range g.Assets {
		names[i] = a.Name
	}
	return names
}

// TotalSize returns the summed size of all assets in bytes.
func (g *Gallery) TotalSize() int64 {
	var total int64
	for _, a := range g.Assets {
		total += a.Size()
	}
	return total
}

// Options controls Load.
type Options struct {
	Dir       string     // Directory to list (not recursive).
	Exclude   []string   // File name patterns to skip.
	Rand      *rand.Rand // Shuffle source; nil uses the global generator.
	NoShuffle bool       // Keep directory order (sorted by name).
	Verbose   bool       // Log every loaded file.
}

// Load lists opts.Dir, keeps the files with a supported image extension,
// reads them into memory and returns them in a random order.
func Load(ctx context.Context, opts Options) (*Gallery, error) {
	names, err := List(opts.Dir, opts.Exclude)
	if err != nil {
		return nil, err
	}

	g := &Gallery{Dir: opts.Dir}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		asset, err := readAsset(filepath.Join(opts.Dir, name), extensionMediaTypes[extension(name)])
		if err != nil {
			// Unreadable files are dropped; the rest of the gallery still plays.
			log.Printf("gallery: skipping %s: %v", name, err)
			continue
		}
		if opts.Verbose {
			log.Printf("gallery: loaded %s (%s, %s)", name, asset.MediaType, humanize.Bytes(uint64(asset.Size())))
		}
		g.Assets = append(g.Assets, asset)
	}

	if len(g.Assets) == 0 {
		return nil, fmt.Errorf("%s: %w", opts.Dir, ErrNoMatchingAssets)
	}

	if !opts.NoShuffle {
		shuffle(g.Assets, opts.Rand)
	}
	return g, nil
}

// List returns the sorted names of the supported image files in dir
// without reading their contents.
func List(dir string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrMissingDirectory)
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && isNotDir(dir) {
			return nil, fmt.Errorf("%s is not a directory: %w", dir, ErrMissingDirectory)
		}
		return nil, fmt.Errorf("gallery: listing %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !keepEntry(dir, e) {
			continue
		}
		name := e.Name()
		if !IsSupported(name) || MatchesExclude(name, exclude) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoMatchingAssets)
	}
	sort.Strings(names)
	return names, nil
}

// keepEntry accepts regular files and symlinks that do not lead to a
// directory. Dangling links are kept so Load reports them as unreadable.
func keepEntry(dir string, e fs.DirEntry) bool {
	switch {
	case e.Type().IsRegular():
		return true
	case e.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		return err != nil || info.Mode().IsRegular()
	}
	return false
}

func isNotDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func shuffle(assets []*Asset, r *rand.Rand) {
	swap := func(i, j int) { assets[i], assets[j] = assets[j], assets[i] }
	if r != nil {
		r.Shuffle(len(assets), swap)
		return
	}
	rand.Shuffle(len(assets), swap)
}

// readAsset loads one file. fallback is the media type implied by the
// file extension.
func readAsset(path, fallback string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return &Asset{
		ID:        hex.EncodeToString(sum[:6]),
		Name:      filepath.Base(path),
		MediaType: mediaType(data, fallback),
		Data:      data,
	}, nil
}

// mediaType prefers the sniffed type when it agrees with the fallback on
// the broad kind (image, audio), so a PNG saved as .jpg is still served
// correctly.
func mediaType(data []byte, fallback string) string {
	detected := mimetype.Detect(data).String()
	if kind(detected) == kind(fallback) {
		return detected
	}
	return fallback
}

func kind(mediaType string) string {
	k, _, _ := strings.Cut(mediaType, "/")
	return k
}
