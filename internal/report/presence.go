package report

import (
	"strconv"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/tables"
)

// MaxSessions is the number of session columns on a presence sheet.
const MaxSessions = 16

type Code string

const (
	CodeBlank              Code = ""
	CodeAbsent             Code = "A"
	CodeOnlineWithFeedback Code = "O"
	CodeOnlineNoFeedback   Code = "OF"
	CodeOnsiteWithFeedback Code = "S"
	CodeOnsiteNoFeedback   Code = "SF"
)

// CodeFor maps one attendance record to its presence cell.
func CodeFor(rec reconcile.Record) Code {
	switch {
	case !rec.Present:
		return CodeAbsent
	case rec.Channel == reconcile.ChannelOnsite && rec.GaveFeedback:
		return CodeOnsiteWithFeedback
	case rec.Channel == reconcile.ChannelOnsite:
		return CodeOnsiteNoFeedback
	case rec.GaveFeedback:
		return CodeOnlineWithFeedback
	default:
		return CodeOnlineNoFeedback
	}
}

// Pending reports whether c marks a present student without feedback.
func (c Code) Pending() bool {
	return c == CodeOnlineNoFeedback || c == CodeOnsiteNoFeedback
}

type PresenceRow struct {
	ID    string            `json:"id,omitempty"`
	Name  string            `json:"name"`
	Cells [MaxSessions]Code `json:"cells"`
}

type PresenceSheet struct {
	IDHeader   string        `json:"id_header,omitempty"`
	NameHeader string        `json:"name_header"`
	Rows       []PresenceRow `json:"rows"`
}

// Presence fills the cells of every target session in [1,16] with the
// student's code. Sessions outside that range are ignored.
func Presence(res *reconcile.Result, roster *tables.Roster) PresenceSheet {
	sheet := PresenceSheet{
		IDHeader:   roster.IDHeader,
		NameHeader: roster.NameHeader,
		Rows:       make([]PresenceRow, 0, roster.Len()),
	}
	sessions := res.TargetSessions.Sorted()
	for _, e := range roster.Entries {
		row := PresenceRow{ID: e.ID, Name: e.Name}
		code := CodeFor(res.Records[e.Name])
		for _, s := range sessions {
			if s >= 1 && s <= MaxSessions {
				row.Cells[s-1] = code
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func (p PresenceSheet) Table() Table {
	var t Table
	if p.IDHeader != "" {
		t.Headers = append(t.Headers, p.IDHeader)
	}
	t.Headers = append(t.Headers, p.NameHeader)
	for i := 1; i <= MaxSessions; i++ {
		t.Headers = append(t.Headers, "Sesi "+strconv.Itoa(i))
	}
	for _, r := range p.Rows {
		var cells []string
		if p.IDHeader != "" {
			cells = append(cells, r.ID)
		}
		cells = append(cells, r.Name)
		for _, c := range r.Cells {
			cells = append(cells, string(c))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
