package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slideshow/internal/config"
	"github.com/ziadkadry99/slideshow/internal/gallery"
	"github.com/ziadkadry99/slideshow/internal/page"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the images and sounds the slideshow would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return scan(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// scan prints the files the loader keeps, in directory order, with sizes.
func scan(out io.Writer, cfg *config.Config) error {
	names, err := gallery.List(cfg.ImageDir, cfg.Exclude)
	if err != nil {
		if _, msg, ok := page.LoadMessage(err); ok {
			fmt.Fprintf(out, "%s (%v)\n", msg, err)
			return nil
		}
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	var total uint64
	for _, name := range names {
		size := fileSize(filepath.Join(cfg.ImageDir, name))
		total += size
		fmt.Fprintf(tw, "%s\t%s\n", name, humanize.Bytes(size))
	}
	tw.Flush()
	fmt.Fprintf(out, "%d images, %s in %s\n", len(names), humanize.Bytes(total), cfg.ImageDir)

	if !cfg.Player.SoundEnabled {
		fmt.Fprintln(out, "Sound disabled")
		return nil
	}
	for _, name := range []string{gallery.BackgroundSound, gallery.ClickSound, gallery.DownloadSound} {
		path := filepath.Join(cfg.SoundDir, name)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(out, "sound %s: missing\n", name)
			continue
		}
		fmt.Fprintf(out, "sound %s: %s\n", name, humanize.Bytes(fileSize(path)))
	}
	return nil
}

func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}
