package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/notation"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

var translateCmd = &cobra.Command{
	Use:   "translate <moves>",
	Short: "Translate face moves into a robot program",
	Long: `Translate a move sequence such as "F3 U3 R3" or "F' U' R'" into the robot
program for the configured start layout, before and after optimization.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	moves, err := notation.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}

	t := settings.Layout.Tracker()
	raw, err := robot.Translate(moves, &t)
	if err != nil {
		return err
	}
	opt := robot.Optimize(raw)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moves:     %s\n", moveStyle.Render(notation.Format(moves, notation.Digits)))
	fmt.Fprintf(out, "Raw:       %s (%d robot moves)\n", raw, raw.RobotMoves())
	fmt.Fprintf(out, "Optimized: %s (%d robot moves)\n", programStyle.Render(opt.String()), opt.RobotMoves())
	fmt.Fprintf(out, "Estimate:  %s\n", settings.Timing.Estimate(opt))
	fmt.Fprintf(out, "Tracker:   %s\n", t)
	return nil
}
