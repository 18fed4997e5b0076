package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Another0Noob/attendance-recon/internal/batch"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/scheduledb"
	"github.com/spf13/cobra"
)

var (
	batchSchedules string
	batchDSN       string
	batchDate      string
	batchOut       string
	batchRoster    string
	batchFeedback  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Reconcile every class of a schedule table",
	Long: `Reconcile a list of class occurrences that share one roster and feedback
export. Rows come from a schedule sheet (--schedules) or from the schedule
database (--dsn). Each row names its own participant files; relative paths
resolve against the schedule sheet's directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	f := batchCmd.Flags()
	f.StringVar(&batchSchedules, "schedules", "", "path to schedule sheet (.csv or .tsv)")
	f.StringVar(&batchDSN, "dsn", "", "schedule database (postgres:// URL or sqlite path)")
	f.StringVar(&batchDate, "date", "", "only rows with this class date (database only)")
	f.StringVarP(&batchOut, "out", "o", "", "output directory (default from config)")
	f.StringVarP(&batchRoster, "roster", "r", "", "path to roster file")
	f.StringVarP(&batchFeedback, "feedback", "f", "", "path to feedback export")
}

func runBatch(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, baseDir, err := loadRows(ctx, stringFlag(cmd, "dsn", batchDSN, cfg.Database.DSN))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("no schedule rows to process")
	}

	roster, feedback, err := loadShared(
		stringFlag(cmd, "roster", batchRoster, cfg.Input.Roster),
		stringFlag(cmd, "feedback", batchFeedback, cfg.Input.Feedback),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(status, "--- Reconciling %d Classes ---\n", len(rows))
	runner := batch.Runner{
		Shared: batch.Shared{
			Roster:   roster,
			Feedback: feedback,
			Fee:      cfg.Class.Fee,
			Mode:     cfg.Class.Mode,
			BaseDir:  baseDir,
		},
		Progress: func(done, total int, o batch.Outcome) {
			if o.Err != nil {
				fmt.Printf("[%d/%d] failed: %v\n", done, total, o.Err)
				return
			}
			s := o.Report.Summary
			fmt.Printf("[%d/%d] %s: %d/%d present, feedback %.1f%%\n",
				done, total, o.Report.Class.ClassCode, s.Present, s.Enrolled, s.FeedbackPercent)
		},
		Log: log(),
	}
	outcomes, runErr := runner.Run(ctx, rows)

	dir := stringFlag(cmd, "out", batchOut, cfg.Output.Dir)
	written, failed := 0, 0
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		paths, err := o.Report.WriteDir(dir, o.Name(i))
		if err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
		written += len(paths)
	}
	fmt.Printf("\nWrote %d report files to %s (%d failed rows).\n", written, dir, failed)
	return runErr
}

// loadRows reads schedule rows from the sheet flag or, failing that, the
// database. The returned directory resolves relative participant paths.
func loadRows(ctx context.Context, dsn string) ([]schedule.Row, string, error) {
	if batchSchedules != "" {
		rows, err := batch.ReadRows(batchSchedules)
		return rows, filepath.Dir(batchSchedules), err
	}
	if dsn == "" {
		return nil, "", errors.New("either --schedules or --dsn is required")
	}

	store, err := scheduledb.Open(ctx, dsn)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	rows, err := store.List(ctx, batchDate)
	return rows, "", err
}
