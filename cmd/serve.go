package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slideshow/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the slideshow over HTTP",
	Long: `Starts an HTTP server that shuffles the image folder on every page load.
The player state lives on the server and drives the page over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		srv, err := server.New(serverConfig(cfg))
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "slideshow %s serving on http://localhost:%d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Images: %s\n", cfg.ImageDir)
		if cfg.Player.SoundEnabled {
			fmt.Fprintf(os.Stderr, "  Sounds: %s\n", cfg.SoundDir)
		}
		fmt.Fprintf(os.Stderr, "  Tick: %dms\n", cfg.Player.TickPeriodMS)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
