package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slideshow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize slideshow configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that picks the folders and player variant, and writes a .slideshow.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (images from %s)\n", cfgFile, cfg.ImageDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
