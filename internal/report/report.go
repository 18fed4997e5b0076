// Package report projects a reconciled run onto the report tables a
// facilitator files after each class: presence sheet, payroll, checklist
// and facilitator summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
)

const (
	ModeOnline = "Online"
	ModeOnsite = "Onsite"
)

// Class describes one class occurrence: the parsed schedule plus the
// details the facilitator enters by hand.
type Class struct {
	schedule.Info
	Date string `json:"date"`
	Fee  int64  `json:"fee"`
	Mode string `json:"mode"`
}

// ModeType returns the first word of Mode, e.g. "Online" for "Online (Zoom)".
func (c Class) ModeType() string {
	if f := strings.Fields(c.Mode); len(f) > 0 {
		return f[0]
	}
	return ModeOnline
}

// EvidenceFileName is the name the meeting screenshot must be saved under.
func EvidenceFileName(c Class) string {
	base := fmt.Sprintf("%s_Sesi %s_%s_%s_%s", c.CourseTitle, c.Sessions, c.Date, c.ClassCode, c.Instructor)
	return strings.ReplaceAll(base, "/", "-") + ".jpg"
}

// Table is a header plus rows of cells, ready to paste into a sheet.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// WriteTSV writes t tab-separated, the form a spreadsheet accepts on paste.
func (t Table) WriteTSV(w io.Writer) error {
	return t.write(w, '\t')
}

func (t Table) WriteCSV(w io.Writer) error {
	return t.write(w, ',')
}

func (t Table) write(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Bundle is every projection for one reconciled class.
type Bundle struct {
	Class       Class             `json:"class"`
	Summary     reconcile.Summary `json:"summary"`
	Evidence    string            `json:"evidence"`
	Presence    PresenceSheet     `json:"presence"`
	Payroll     PayrollRow        `json:"payroll"`
	Checklist   Checklist         `json:"checklist"`
	Facilitator FacilitatorRow    `json:"facilitator"`
}

func Build(c Class, res *reconcile.Result, roster *tables.Roster) Bundle {
	sum := res.Summary()
	return Bundle{
		Class:       c,
		Summary:     sum,
		Evidence:    EvidenceFileName(c),
		Presence:    Presence(res, roster),
		Payroll:     Payroll(c),
		Checklist:   NewChecklist(),
		Facilitator: Facilitator(c, sum),
	}
}

// Named is a projection table with the base file name it is written under.
type Named struct {
	Name  string
	Table Table
}

func (b Bundle) Tables() []Named {
	return []Named{
		{Name: "checklist", Table: b.Checklist.Table()},
		{Name: "fasil", Table: b.Facilitator.Table()},
		{Name: "presensi", Table: b.Presence.Table()},
		{Name: "gaji", Table: b.Payroll.Table()},
	}
}

// WriteDir writes every table of b as prefix_<name>.tsv under dir and
// returns the written paths.
func (b Bundle) WriteDir(dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, n := range b.Tables() {
		name := n.Name + ".tsv"
		if prefix != "" {
			name = prefix + "_" + name
		}
		path := filepath.Join(dir, name)
		if err := writeFile(path, n.Table); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteTSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
