package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Another0Noob/attendance-recon/internal/batch"
	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/render"
	"github.com/Another0Noob/attendance-recon/internal/report"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rosterFile   string
	feedbackFile string
	onlineFile   string
	onsiteFile   string
	scheduleText string
	sessionsArg  string
	dateArg      string
	feeArg       int64
	modeArg      string
	outDir       string
	asJSON       bool
	noColor      bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile one class occurrence",
	Long: `Reconcile one class: normalize and match the online and onsite participant
lists against the roster, count feedback for the target sessions and print the
summary, review lists and presence sheet. With --out the report tables are
written as TSV files.`,
	Example: `  attendance reconcile --roster roster.csv --online zoom.txt --onsite hadir.txt \
    --feedback feedback.csv --schedule "Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina Pertemuan 1 & 2"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	f := reconcileCmd.Flags()
	f.StringVarP(&rosterFile, "roster", "r", "", "path to roster file (.csv or .tsv)")
	f.StringVarP(&feedbackFile, "feedback", "f", "", "path to feedback export (.csv or .tsv)")
	f.StringVar(&onlineFile, "online", "", "path to online participant list, one name per line")
	f.StringVar(&onsiteFile, "onsite", "", "path to onsite participant list, one name per line")
	f.StringVarP(&scheduleText, "schedule", "s", "", "free-form schedule line")
	f.StringVar(&sessionsArg, "sessions", "", `session descriptor, e.g. "1 & 2" (overrides the schedule)`)
	f.StringVar(&dateArg, "date", "", "class date (default today)")
	f.Int64Var(&feeArg, "fee", 0, "fee per session (default from config)")
	f.StringVar(&modeArg, "mode", "", "Online or Onsite (default from config)")
	f.StringVarP(&outDir, "out", "o", "", "write report tables as TSV into this directory")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	f.BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runReconcile(cmd *cobra.Command) error {
	if asJSON {
		status = os.Stderr
	}
	roster, feedback, err := loadShared(
		stringFlag(cmd, "roster", rosterFile, cfg.Input.Roster),
		stringFlag(cmd, "feedback", feedbackFile, cfg.Input.Feedback),
	)
	if err != nil {
		return err
	}

	online, err := tables.ReadLinesFile(onlineFile)
	if err != nil {
		return err
	}
	onsite, err := tables.ReadLinesFile(onsiteFile)
	if err != nil {
		return err
	}

	row := schedule.Row{Text: scheduleText, Sessions: sessionsArg, Date: dateArg, Fee: feeArg, Mode: modeArg}
	if row.Date == "" {
		row.Date = time.Now().Format("02 January 2006")
	}
	class := batch.ClassFor(row, cfg.Class.Fee, cfg.Class.Mode)

	fmt.Fprintln(status, "--- Matching Participants ---")
	res, err := reconcile.Run(reconcile.Input{
		Roster:   roster,
		Online:   online,
		Onsite:   onsite,
		Feedback: feedback,
		Sessions: class.Sessions,
	})
	if err != nil {
		return err
	}
	b := report.Build(class, res, roster)

	log().WithFields(logrus.Fields{
		"class_code": class.ClassCode,
		"sessions":   class.Sessions,
		"present":    b.Summary.Present,
		"ghosts":     b.Summary.Ghosts,
		"ambiguous":  b.Summary.Ambiguous,
	}).Debug("reconciled")

	if asJSON {
		return printJSON(b, res)
	}

	p := render.Printer{W: os.Stdout, Color: !noColor}
	p.Summary(b)
	fmt.Println()
	p.Review(res)
	fmt.Println()
	p.Presence(b.Presence, res.TargetSessions.Sorted())

	dir := stringFlag(cmd, "out", outDir, "")
	if dir == "" {
		return nil
	}
	paths, err := b.WriteDir(dir, class.ClassCode)
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	fmt.Printf("\nWrote %d report files to %s.\n", len(paths), dir)
	return nil
}

func printJSON(b report.Bundle, res *reconcile.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Report    report.Bundle               `json:"report"`
		Records   map[string]reconcile.Record `json:"records"`
		Ambiguous []reconcile.Ambiguity       `json:"ambiguous"`
		Ghosts    []string                    `json:"ghosts"`
		Unmatched []reconcile.Unmatched       `json:"unmatched"`
		Pending   []string                    `json:"pending_feedback"`
	}{b, res.Records, res.Ambiguous, res.Ghosts, res.Unmatched, res.PendingFeedback()})
}
