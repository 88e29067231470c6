package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

var tablesAll bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the move and pruning tables",
}

var tablesBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build or verify the cached tables",
	Long: `Load the tables for the configured metric, creating any missing or stale
cache file, and print the distance distribution. With --all both metrics are
prepared.`,
	RunE: runTablesBuild,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesBuildCmd)
	tablesBuildCmd.Flags().BoolVar(&tablesAll, "all", false, "Prepare tables for both metrics")
}

func runTablesBuild(cmd *cobra.Command, _ []string) error {
	metrics := []tables.Metric{settings.Metric}
	if tablesAll {
		metrics = []tables.Metric{tables.FTM, tables.QTM}
	}

	out := cmd.OutOrStdout()
	store := tables.NewStore(settings.CacheDir, logger)
	for _, m := range metrics {
		t, err := store.Load(m)
		if err != nil {
			return err
		}
		hist := t.Histogram()
		counts := make([]string, len(hist))
		for i, n := range hist {
			counts[i] = fmt.Sprintf("%d:%d", i, n)
		}
		fmt.Fprintf(out, "%s  max depth %d  %s\n", titleStyle.Render(m.String()), len(hist)-1,
			statusStyle.Render(strings.Join(counts, " ")))
	}
	fmt.Fprintln(out, "Tables in", store.Dir)
	return nil
}
