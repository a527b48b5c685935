package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slideshow/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "slideshow",
	Short: "Shuffle a folder of images into a looping slideshow",
	Long: `Slideshow shuffles the images of a folder and cycles through them on a
timer. Clicking the image pauses on it so it can be downloaded; sound effects
accompany playback. Serve it live or export a single self-contained HTML file.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
