package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Another0Noob/attendance-recon/internal/batch"
	"github.com/Another0Noob/attendance-recon/internal/scheduledb"
	"github.com/spf13/cobra"
)

var (
	schedulesDSN  string
	schedulesDate string
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Manage the class schedule database",
}

var schedulesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schedule tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *scheduledb.Store) error {
			if err := s.Migrate(ctx); err != nil {
				return err
			}
			fmt.Printf("Migrated %s schedule database.\n", s.Driver())
			return nil
		})
	},
}

var schedulesImportCmd = &cobra.Command{
	Use:   "import [sheet]",
	Short: "Import schedule rows from a .csv or .tsv sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := batch.ReadRows(args[0])
		if err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, s *scheduledb.Store) error {
			if err := s.Migrate(ctx); err != nil {
				return err
			}
			ids, err := s.InsertAll(ctx, rows)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d schedule rows.\n", len(ids))
			return nil
		})
	},
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored schedule rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *scheduledb.Store) error {
			rows, err := s.List(ctx, schedulesDate)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tCODE\tSESSIONS\tSCHEDULE")
			for _, r := range rows {
				info := r.Info()
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Date, info.ClassCode, info.Sessions, r.Text)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(schedulesCmd)
	schedulesCmd.AddCommand(schedulesMigrateCmd, schedulesImportCmd, schedulesListCmd)

	schedulesCmd.PersistentFlags().StringVar(&schedulesDSN, "dsn", "", "schedule database (postgres:// URL or sqlite path)")
	schedulesListCmd.Flags().StringVar(&schedulesDate, "date", "", "only rows with this class date")
}

func withStore(cmd *cobra.Command, fn func(context.Context, *scheduledb.Store) error) error {
	dsn := stringFlag(cmd, "dsn", schedulesDSN, cfg.Database.DSN)
	if dsn == "" {
		return errors.New("--dsn or ATTENDANCE_DSN is required")
	}
	ctx := cmd.Context()
	store, err := scheduledb.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}
