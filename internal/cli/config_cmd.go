package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml unless one exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, written, err := config.WriteDefault(configDir)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), path, "already exists")
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "metric:      %s\n", settings.Metric)
		fmt.Fprintf(out, "layout:      %s\n", settings.Layout)
		fmt.Fprintf(out, "alternates:  %t\n", settings.Alternates)
		fmt.Fprintf(out, "cache_dir:   %s\n", settings.CacheDir)
		fmt.Fprintf(out, "db_path:     %s\n", settings.DBPath)
		fmt.Fprintf(out, "timing:      flip %s, spin %s, rotate %s, settle %s\n",
			settings.Timing.Flip, settings.Timing.Spin, settings.Timing.Rotate, settings.Timing.Settle)
		fmt.Fprintf(out, "robot:       %s (timeout %s)\n", settings.RobotName, settings.RobotTimeout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
