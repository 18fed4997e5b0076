// Package batch runs the reconciliation pipeline once per schedule row over a
// shared roster and feedback table.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/report"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/sirupsen/logrus"
)

// Shared is the input every row of a batch reads. It is never written to.
type Shared struct {
	Roster   *tables.Roster
	Feedback *tables.Feedback
	Fee      int64
	Mode     string
	// BaseDir resolves relative participant file paths.
	BaseDir string
}

// Source supplies the participant lines of one row. The default reads the
// row's online and onsite files from disk.
type Source func(row schedule.Row) (online, onsite []string, err error)

type Outcome struct {
	Row    schedule.Row      `json:"row"`
	Result *reconcile.Result `json:"result,omitempty"`
	Report *report.Bundle    `json:"report,omitempty"`
	Err    error             `json:"-"`
	Error  string            `json:"error,omitempty"`
}

// Name is a file-safe label for the outcome, e.g. "003_IF23".
func (o Outcome) Name(i int) string {
	code := schedule.DefaultClassCode
	if o.Report != nil {
		code = o.Report.Class.ClassCode
	}
	code = strings.NewReplacer("/", "-", " ", "_").Replace(code)
	return fmt.Sprintf("%03d_%s", i+1, code)
}

// Progress is called after each row.
type Progress func(done, total int, o Outcome)

type Runner struct {
	Shared   Shared
	Source   Source
	Progress Progress
	Log      *logrus.Entry
}

// Run processes rows sequentially. A failing row is recorded in its outcome
// and the batch continues; only cancellation of ctx stops it early.
func (r *Runner) Run(ctx context.Context, rows []schedule.Row) ([]Outcome, error) {
	src := r.Source
	if src == nil {
		src = r.filesSource
	}
	log := r.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	out := make([]Outcome, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		o := r.runRow(row, src)
		entry := log.WithFields(logrus.Fields{"row": i + 1, "sessions": row.Sessions})
		if o.Err != nil {
			entry.WithError(o.Err).Warn("row failed")
		} else {
			s := o.Report.Summary
			entry.WithFields(logrus.Fields{
				"class_code": o.Report.Class.ClassCode,
				"present":    s.Present,
				"ghosts":     s.Ghosts,
				"ambiguous":  s.Ambiguous,
			}).Info("row reconciled")
		}
		out = append(out, o)
		if r.Progress != nil {
			r.Progress(i+1, len(rows), o)
		}
	}
	return out, nil
}

func (r *Runner) runRow(row schedule.Row, src Source) Outcome {
	o := Outcome{Row: row}
	fail := func(err error) Outcome {
		o.Err = err
		o.Error = err.Error()
		return o
	}

	online, onsite, err := src(row)
	if err != nil {
		return fail(err)
	}

	class := ClassFor(row, r.Shared.Fee, r.Shared.Mode)
	res, err := reconcile.Run(reconcile.Input{
		Roster:   r.Shared.Roster,
		Online:   online,
		Onsite:   onsite,
		Feedback: r.Shared.Feedback,
		Sessions: class.Sessions,
	})
	if err != nil {
		return fail(err)
	}
	b := report.Build(class, res, r.Shared.Roster)
	o.Result = res
	o.Report = &b
	return o
}

// ClassFor builds the report class of a row; the row's own fee and mode win
// over the defaults.
func ClassFor(row schedule.Row, fee int64, mode string) report.Class {
	c := report.Class{Info: row.Info(), Date: row.Date, Fee: fee, Mode: mode}
	if row.Fee > 0 {
		c.Fee = row.Fee
	}
	if m := strings.TrimSpace(row.Mode); m != "" {
		c.Mode = m
	}
	return c
}

func (r *Runner) filesSource(row schedule.Row) ([]string, []string, error) {
	online, err := tables.ReadLinesFile(r.resolve(row.OnlineFile))
	if err != nil {
		return nil, nil, err
	}
	onsite, err := tables.ReadLinesFile(r.resolve(row.OnsiteFile))
	if err != nil {
		return nil, nil, err
	}
	return online, onsite, nil
}

func (r *Runner) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || r.Shared.BaseDir == "" {
		return path
	}
	return filepath.Join(r.Shared.BaseDir, path)
}
