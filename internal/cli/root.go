// Package cli implements the command-line interface for cubotino.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AndreaFavero71/cubotino-pocket/internal/config"
)

const version = "0.1.0"

var (
	// Global flags
	configDir string
	verbose   bool

	settings config.Config
	logger   = slog.Default()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubotino",
	Short: "Optimal 2x2x2 solver for the Cubotino Pocket robot",
	Long: `cubotino solves a scanned 2x2x2 cube optimally, translates the solution into
flip, spin and rotate commands for the Cubotino Pocket robot and runs them,
either on a virtual robot or over Bluetooth.

Facelets are 24 letters in URFDLB face order, for example:
  cubotino plan BUUFURDDFRLRFFDBULLDBLRB`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command. Cancelling ctx aborts long-running
// commands and any program running on a robot.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configDir, "config-dir", config.DefaultDir(), "Directory holding config.yaml")
	pf.String("cache-dir", "", "Table cache directory (default: <config-dir>/tables)")
	pf.String("db", "", "Solve log database (default: <config-dir>/solves.db)")
	pf.String("metric", "", "Search metric: ftm or qtm")
	pf.String("layout", "", "Cube layout on the robot: scanned or simulation")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadSettings merges config.yaml, CUBOTINO_* variables and flags.
func loadSettings(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	v, err := config.New(configDir)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	settings, err = config.Decode(v)
	if err != nil {
		return err
	}
	logger.Debug("settings loaded",
		slog.String("metric", settings.Metric.String()),
		slog.String("layout", settings.Layout.String()),
		slog.String("cache_dir", settings.CacheDir))
	return nil
}

// bindFlags lets explicitly set flags override the config file.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, flag := range map[string]string{
		config.KeyCacheDir: "cache-dir",
		config.KeyDBPath:   "db",
		config.KeyMetric:   "metric",
		config.KeyLayout:   "layout",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}
