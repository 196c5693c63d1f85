package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tierrun/tier-go/config"
	"github.com/tierrun/tier-go/tier"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *tier.Client

	// Global flags
	apiURL       string
	debug        bool
	outputFormat string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tier",
	Short: "Manage Tier pricing models, schedules and reservations",
	Long: `tier is a command line client for the Tier metering and billing API.

It can read and push pricing models, read and change an organization's
plan schedule, and reserve units of metered features.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build information for the version command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s, client %s)", version, buildTime, tier.Version)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", "", "Tier API URL (overrides TIER_URL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every API request and response")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (json or yaml)")

	// Add subcommands
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(modelCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override from command line if specified
	if cmd.Flags().Changed("url") {
		cfg.Tier.URL = apiURL
	}
	if cmd.Flags().Changed("debug") {
		cfg.Tier.Debug = debug
	}
	if cmd.Flags().Changed("output") {
		if outputFormat != "json" && outputFormat != "yaml" {
			return fmt.Errorf("invalid output format: %s (must be 'json' or 'yaml')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}
	if cfg.Tier.Debug {
		cfg.Logging.Level = "debug"
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Tier client
	client, err = tier.New(cfg.Client(),
		tier.WithLogger(logger),
		tier.WithTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tier client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
