package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/chanplot/internal/adapters/discord"
	"github.com/kamal-hamza/chanplot/pkg/config"
	"github.com/kamal-hamza/chanplot/pkg/ui"
	"github.com/kamal-hamza/chanplot/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Diagnostics go to stderr; user-facing output goes to stdout
	logger = zerolog.Nop()

	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chanplot",
	Short: "chanplot - Discord attachment activity charts",
	Long: ui.StyleTitle.Render("chanplot") + " - Discord attachment activity charts\n\n" +
		"Walks the full history of the tracked channels, counts posted attachments\n" +
		"per day and per week, and posts the charts to a summary channel.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chanplot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log diagnostics to stderr")

	// Add subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp resolves paths, loads .env files and the config, and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for version command
	if cmd.Name() == "version" {
		return nil
	}

	logger = newLogger(os.Stderr, verbose)

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	if configPath == "" {
		configPath = appWorkspace.ConfigPath
	}

	found, err := config.LoadEnv(appWorkspace.EnvFiles()...)
	if err != nil {
		return err
	}
	logger.Debug().Bool("found", found).Msg("environment loaded")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger.Debug().Str("path", configPath).Int("destinations", len(cfg.Destinations)).Msg("config loaded")

	ui.SetTheme(appConfig.ColorTheme)
	return nil
}

// newLogger builds the console logger; warnings only unless verbose
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// newDiscordClient logs in with the configured bot token
func newDiscordClient() (*discord.Client, error) {
	token, err := appConfig.ResolveToken()
	if err != nil {
		return nil, err
	}
	return discord.New(token)
}

// getContext returns a context that is cancelled on interrupt
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
