package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slideshow/internal/config"
	"github.com/ziadkadry99/slideshow/internal/gallery"
	"github.com/ziadkadry99/slideshow/internal/page"
	"github.com/ziadkadry99/slideshow/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the slideshow as a single self-contained HTML file",
	Long: `Shuffles the image folder once and writes an HTML page with every image and
sound inlined as a data URI. The page plays without a server.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "slideshow.html", "output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	var buf bytes.Buffer
	res, err := exportPage(cmd.Context(), cfg, &buf, progress.NewReporter())
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	if res.notice != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s Wrote a notice page to %s\n", res.notice, output)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Exported %d images (%s) to %s\n", res.images, humanize.Bytes(uint64(res.bytes)), output)
	return nil
}

// exportResult summarizes what exportPage wrote.
type exportResult struct {
	images int
	bytes  int64
	notice string // set when a notice page was written instead of the player
}

// exportPage renders the standalone page for cfg into w. Gallery problems
// produce the same notice page the server shows and are not errors.
func exportPage(ctx context.Context, cfg *config.Config, w io.Writer, rep progress.Reporter) (exportResult, error) {
	renderer, err := page.NewRenderer()
	if err != nil {
		return exportResult{}, err
	}

	g, sounds, err := loadGallery(ctx, cfg)
	if err != nil {
		level, msg, ok := page.LoadMessage(err)
		if !ok {
			return exportResult{}, err
		}
		if err := renderer.Message(w, cfg.Title, cfg.Height, level, msg); err != nil {
			return exportResult{}, err
		}
		return exportResult{notice: msg}, nil
	}

	// Encode up front so the bar tracks the expensive part.
	rep.Start(g.Len())
	for i, a := range g.Assets {
		rep.Encoded(i+1, a.Name, len(a.DataURI()))
	}
	rep.Finish()

	intro, err := renderer.Intro(cfg.IntroFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	script := page.NewScript(page.ModeStandalone, cfg.PlayerOptions())
	script.Images = page.InlineImages(g)
	script.Sounds = page.InlineSounds(sounds)

	err = renderer.Player(w, page.Data{
		Title:  cfg.Title,
		Height: cfg.Height,
		Intro:  intro,
		Script: script,
	})
	if err != nil {
		return exportResult{}, fmt.Errorf("rendering page: %w", err)
	}
	return exportResult{images: g.Len(), bytes: g.TotalSize()}, nil
}

// loadGallery runs the asset loader for cfg, including sounds when enabled.
func loadGallery(ctx context.Context, cfg *config.Config) (*gallery.Gallery, *gallery.Sounds, error) {
	g, err := gallery.Load(ctx, gallery.Options{
		Dir:     cfg.ImageDir,
		Exclude: cfg.Exclude,
		Verbose: verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Player.SoundEnabled {
		return g, nil, nil
	}
	sounds, err := gallery.LoadSounds(cfg.SoundDir)
	if err != nil {
		return nil, nil, err
	}
	return g, sounds, nil
}
