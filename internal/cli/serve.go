package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Hearthlight/internal/logging"
	"Hearthlight/internal/server"
)

var (
	serveConfigPath string
	serveAddr       string
	serveContentDir string
	serveWatch      bool
	serveDebounce   time.Duration
	serveLogLevel   string
	serveLogFormat  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web client and dialogue sessions",
	Long: `Start the HTTP server. Each WebSocket connection on /ws gets its own
dialogue session over the loaded content.

Settings are read from the config file, then HEARTHLIGHT_* environment
variables, then flags. Without a content directory the built-in seed
dialogue is served. With --watch, edits to the content directory are
reloaded into every open session.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "configs/hearthlight.yaml", "path to YAML config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (e.g., 127.0.0.1:8080)")
	serveCmd.Flags().StringVar(&serveContentDir, "content", "", "dialogue content directory")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload content when files change")
	serveCmd.Flags().DurationVar(&serveDebounce, "reload-debounce", 0, "quiet period before reloading changed content")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "log format (json, console)")
	rootCmd.AddCommand(serveCmd)
}

// serveOverrides collects only the flags the user actually set.
func serveOverrides(cmd *cobra.Command) server.ConfigOverrides {
	var o server.ConfigOverrides
	flags := cmd.Flags()
	if flags.Changed("addr") {
		o.Addr = &serveAddr
	}
	if flags.Changed("content") {
		o.ContentDir = &serveContentDir
	}
	if flags.Changed("watch") {
		o.WatchContent = &serveWatch
	}
	if flags.Changed("reload-debounce") {
		o.ReloadDebounce = &serveDebounce
	}
	if flags.Changed("log-level") {
		o.LogLevel = &serveLogLevel
	}
	if flags.Changed("log-format") {
		o.LogFormat = &serveLogFormat
	}
	return o
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadAppConfig(serveConfigPath)
	if err != nil {
		return err
	}
	cfg = serveOverrides(cmd).Apply(cfg)

	logger := logging.New(cfg.Logging(), os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartApp(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
