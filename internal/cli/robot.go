package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/ble"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
	"github.com/AndreaFavero71/cubotino-pocket/internal/storage"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

var (
	robotVirtual bool
	robotNoLog   bool
)

var robotCmd = &cobra.Command{
	Use:   "robot",
	Short: "Talk to a Cubotino robot over Bluetooth",
}

var robotScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List nearby robots",
	RunE:  runRobotScan,
}

var robotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state and battery of the first robot found",
	RunE:  runRobotStatus,
}

var robotRunCmd = &cobra.Command{
	Use:   "run <facelets>",
	Short: "Plan the cube and run the program on the robot",
	Long: `Plan the cube, record it in the solve log and send the program to the first
robot found. With --virtual the program runs on a virtual robot instead.
Ctrl+C aborts the robot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRobotRun,
}

func init() {
	rootCmd.AddCommand(robotCmd)
	robotCmd.AddCommand(robotScanCmd, robotStatusCmd, robotRunCmd)
	robotRunCmd.Flags().BoolVar(&robotVirtual, "virtual", false, "Run on a virtual robot")
	robotRunCmd.Flags().BoolVar(&robotNoLog, "no-log", false, "Do not record the solve")
}

// connectRobot scans for the configured robot name and connects to the
// first match.
func connectRobot(ctx context.Context) (*ble.Client, error) {
	client, err := ble.NewClient(settings.RobotName, logger)
	if err != nil {
		return nil, fmt.Errorf("BLE not available: %w", err)
	}
	if err := client.ConnectFirst(ctx, settings.RobotTimeout); err != nil {
		return nil, err
	}
	return client, nil
}

func runRobotScan(cmd *cobra.Command, _ []string) error {
	client, err := ble.NewClient(settings.RobotName, logger)
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for %q robots...\n", settings.RobotName)

	results, err := client.Scan(cmd.Context(), settings.RobotTimeout)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No robots found")
		fmt.Fprintln(out, "\nTips:")
		fmt.Fprintln(out, "  - Ensure the robot is powered on and not paired with another host")
		fmt.Fprintln(out, "  - Check that Bluetooth is enabled")
		return nil
	}
	fmt.Fprintf(out, "Found %d robot(s):\n", len(results))
	for _, r := range results {
		fmt.Fprintf(out, "  - %s (%s, RSSI %d)\n", r.Name, r.Address.String(), r.RSSI)
	}
	return nil
}

func runRobotStatus(cmd *cobra.Command, _ []string) error {
	client, err := connectRobot(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Disconnect()

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.RobotTimeout)
	defer cancel()
	st, err := client.RequestStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, battery %d%%\n", client.Name(), st.State, st.Battery)
	return nil
}

func runRobotRun(cmd *cobra.Command, args []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	res, err := s.Solve(facelets(args))
	if err != nil {
		return err
	}
	p, err := planResult(newPlanner(), res)
	if err != nil {
		return err
	}
	best := p.Chosen()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Solution: %s\n", moveStyle.Render(solver.Solution(best.Moves).Format(s.Metric())))
	fmt.Fprintf(out, "Program:  %s (%d robot moves, ~%s)\n", programStyle.Render(best.Program.String()), best.RobotMoves, best.Estimate)

	var exec robot.Executor
	name := "virtual"
	if robotVirtual {
		exec = robot.NewVirtualRobot(res.Facelets, p.Layout)
	} else {
		client, err := connectRobot(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Disconnect()
		exec = client
		name = client.Name()
	}

	start := time.Now()
	runErr := exec.Execute(cmd.Context(), best.Program)
	elapsed := time.Since(start)

	if !robotNoLog {
		if err := logRun(res, p, s.Metric(), name, start, elapsed, runErr); err != nil {
			logger.Warn("solve not recorded", slog.String("error", err.Error()))
		}
	}
	if runErr != nil {
		return runErr
	}

	if v, ok := exec.(*robot.VirtualRobot); ok && !v.Solved() {
		return fmt.Errorf("%w: virtual robot not solved after %s", robot.ErrInvariant, best.Program)
	}
	fmt.Fprintf(out, "Done in %s\n", elapsed.Round(time.Millisecond))
	return nil
}

func logRun(res *solver.Result, p *robot.Plan, metric tables.Metric, executor string, start time.Time, elapsed time.Duration, runErr error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := recordPlan(db, res, p, metric)
	if err != nil {
		return err
	}

	run := &storage.Run{
		SolveID:   id,
		Executor:  executor,
		StartedAt: start,
		Duration:  elapsed,
		Status:    storage.RunDone,
	}
	switch {
	case runErr == nil:
		run.RobotMoves = p.Chosen().RobotMoves
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		run.Status = storage.RunAborted
	default:
		run.Status = storage.RunError
		msg := runErr.Error()
		run.Error = &msg
	}
	_, err = storage.NewRunRepository(db).Create(run)
	return err
}
