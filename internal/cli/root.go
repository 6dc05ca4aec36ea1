// Package cli implements the command-line interface for micube.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/config"
	"github.com/SeamusWaldron/micube/internal/logging"
	"github.com/SeamusWaldron/micube/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string

	// Set by loadConfig before any command runs
	cfg    *config.Config
	logger = zerolog.Nop()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "micube",
	Short: "Xiaomi / Giiker smart cube tool",
	Long: `micube - decode and watch Xiaomi Mi Smart and Giiker cubes.

Decode captured state frames offline, scan for cubes over Bluetooth, and
watch a live cube with its sticker net, moves and battery level. Connections
are recorded in a local sqlite database.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: ./micube.yaml or ~/.micube/micube.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("pretty", true, "Human-readable log output")
	flags.String("db", "", "Database file path (default: ~/.micube/micube.db)")
}

// addDeviceFlags adds the flags of commands that talk to a cube.
func addDeviceFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "Cube address (default: first cube found)")
	cmd.Flags().String("prefix", "Gi", "Advertised name prefix of cubes")
	cmd.Flags().Duration("timeout", micube.DefaultScanTimeout, "Scan timeout")
	cmd.Flags().Int("retries", 10, "Connection attempts")
	cmd.Flags().Bool("battery", true, "Request the battery level after connecting")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("config loaded")
	}
	return nil
}

// deviceOptions converts the device settings into connection options.
func deviceOptions(l zerolog.Logger) []micube.Option {
	return []micube.Option{
		micube.WithLogger(l),
		micube.WithNamePrefix(cfg.Device.NamePrefix),
		micube.WithScanTimeout(cfg.Device.ScanTimeout),
		micube.WithConnectRetries(cfg.Device.ConnectRetries),
		micube.WithBattery(cfg.Device.Battery),
	}
}

// openDB opens and migrates the configured database.
func openDB() (*storage.DB, error) {
	var db *storage.DB
	var err error

	opts := []storage.Option{storage.WithLogger(logger)}
	if cfg.DB.Path == "" {
		db, err = storage.OpenDefault(opts...)
	} else {
		db, err = storage.Open(cfg.DB.Path, opts...)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
