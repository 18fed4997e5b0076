package tables

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// RosterEntry is one enrolled participant. Name is the display name exactly
// as it appears in the sheet; it is the canonical identity downstream.
type RosterEntry struct {
	ID    string   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Row   int      `json:"row"`
	Cells []string `json:"cells,omitempty"`
}

// Roster is the enrolment list for one class.
type Roster struct {
	NameHeader string        `json:"name_header"`
	IDHeader   string        `json:"id_header,omitempty"`
	Headers    []string      `json:"headers"`
	Entries    []RosterEntry `json:"entries"`
}

var (
	nameKeywords = []string{"nama", "name"}
	idWords      = []string{"nim", "npm", "nis", "nrp", "nik", "id"}
)

// NewRoster locates the name column (first header containing "nama" or
// "name") and an optional student ID column. Rows with a blank name are
// skipped. Row numbers are 1-based data rows.
func NewRoster(sheet *Sheet) (*Roster, error) {
	nameIdx := sheet.Column(nameKeywords...)
	if nameIdx < 0 {
		return nil, &ColumnError{Table: "roster", Column: "name", Headers: sheet.Headers}
	}
	idIdx := sheet.ColumnWord(idWords...)
	if idIdx == nameIdx {
		idIdx = -1
	}

	r := &Roster{
		NameHeader: sheet.Headers[nameIdx],
		Headers:    sheet.Headers,
		Entries:    make([]RosterEntry, 0, len(sheet.Records)),
	}
	if idIdx >= 0 {
		r.IDHeader = sheet.Headers[idIdx]
	}

	for i, rec := range sheet.Records {
		name := Cell(rec, nameIdx)
		if name == "" {
			continue
		}
		r.Entries = append(r.Entries, RosterEntry{
			ID:    Cell(rec, idIdx),
			Name:  name,
			Row:   i + 1,
			Cells: rec,
		})
	}
	return r, nil
}

// ReadRosterFile reads and validates a roster file.
func ReadRosterFile(path string) (*Roster, error) {
	sheet, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return NewRoster(sheet)
}

// RosterFromNames builds a roster from bare names, for callers that have no
// sheet.
func RosterFromNames(names []string) *Roster {
	r := &Roster{NameHeader: "Nama", Headers: []string{"Nama"}}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		r.Entries = append(r.Entries, RosterEntry{Name: n, Row: len(r.Entries) + 1})
	}
	return r
}

// Names returns the display names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of entries.
func (r *Roster) Len() int { return len(r.Entries) }

// ReadLines reads a participant list, one raw name per line.
func ReadLines(reader io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return out, nil
}

// ReadLinesFile reads a participant list from disk. An empty path yields no
// lines.
func ReadLinesFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open participant list: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}
