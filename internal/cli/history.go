package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/storage"
)

var (
	historyLimit int
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the solve log",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solves",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [solve-id]",
	Short: "Show one solve and its robot runs (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest solves",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of solves to list")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "Number of solves to keep")
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	solves, err := storage.NewSolveRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(solves) == 0 {
		fmt.Fprintln(out, "No solves recorded. Plan one with: cubotino plan --record <facelets>")
		return nil
	}
	for _, s := range solves {
		fmt.Fprintf(out, "%s  %s  %s  %-28s %2d moves  %s\n",
			statusStyle.Render(s.SolveID[:8]),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Facelets, s.Solution, s.RobotMoves, s.Estimate)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewSolveRepository(db)
	var s *storage.Solve
	if len(args) == 1 {
		s, err = repo.Get(args[0])
	} else {
		s, err = repo.GetLast()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Solve "+s.SolveID))
	fmt.Fprintf(out, "Created:     %s\n", s.CreatedAt.Local().Format(time.RFC3339))
	if f, err := cube.ParseFacelets(s.Facelets); err == nil {
		fmt.Fprint(out, renderNet(f))
	}
	fmt.Fprintf(out, "Facelets:    %s\n", s.Facelets)
	fmt.Fprintf(out, "Metric:      %s\n", s.Metric)
	fmt.Fprintf(out, "Layout:      %s\n", s.Layout)
	fmt.Fprintf(out, "Solution:    %s\n", moveStyle.Render(s.Solution))
	fmt.Fprintf(out, "Program:     %s\n", programStyle.Render(s.Program))
	fmt.Fprintf(out, "Robot moves: %d\n", s.RobotMoves)
	fmt.Fprintf(out, "Estimate:    %s\n", s.Estimate)
	fmt.Fprintf(out, "Candidates:  %d\n", s.Candidates)
	if s.Notes != nil {
		fmt.Fprintf(out, "Notes:       %s\n", *s.Notes)
	}

	runs, err := storage.NewRunRepository(db).GetBySolve(s.SolveID)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		fmt.Fprintln(out, "\nRuns:")
	}
	for _, r := range runs {
		line := fmt.Sprintf("  %s  %-12s %-8s %2d moves  %s",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Executor, r.Status, r.RobotMoves, r.Duration)
		if r.Error != nil {
			line += "  " + errorStyle.Render(*r.Error)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storage.NewSolveRepository(db).Prune(historyKeep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d solves.\n", n)
	return nil
}
