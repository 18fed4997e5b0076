// Package reconcile derives per-student attendance from the roster, the
// online and onsite participant lists and the feedback form export.
//
// Run is a pure function of its input: nothing is cached between calls and
// the roster and feedback tables are only read.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/match"
	"github.com/Another0Noob/attendance-recon/internal/normalize"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
)

type Channel string

const (
	ChannelNone   Channel = "none"
	ChannelOnline Channel = "online"
	ChannelOnsite Channel = "onsite"
)

// Source names the input a reviewed name came from.
type Source string

const (
	SourceOnline   Source = "online"
	SourceOnsite   Source = "onsite"
	SourceFeedback Source = "feedback"
)

// Input is one reconciliation run. Online and Onsite hold raw participant
// lines, one name per element, before normalization.
type Input struct {
	Roster   *tables.Roster
	Online   []string
	Onsite   []string
	Feedback *tables.Feedback
	Sessions string
}

// Record is the verdict for one roster member.
type Record struct {
	Present      bool    `json:"present"`
	Channel      Channel `json:"channel"`
	GaveFeedback bool    `json:"gave_feedback"`
}

// Ambiguity is a committed match that needs human confirmation.
type Ambiguity struct {
	Source Source `json:"source"`
	match.Result
}

// Unmatched is a name no roster entry could absorb. Hint is the closest
// roster name, shown to the reviewer only.
type Unmatched struct {
	Source Source `json:"source"`
	Name   string `json:"name"`
	Hint   string `json:"hint,omitempty"`
}

type Result struct {
	Records        map[string]Record   `json:"records"`
	Order          []string            `json:"order"`
	Ambiguous      []Ambiguity         `json:"ambiguous"`
	Ghosts         []string            `json:"ghosts"`
	Unmatched      []Unmatched         `json:"unmatched"`
	TargetSessions schedule.SessionSet `json:"-"`
}

type nameSet map[string]struct{}

func (s nameSet) has(n string) bool {
	_, ok := s[n]
	return ok
}

// Run reconciles one class occurrence. The only error is an unusable roster;
// every other problem degrades to an excluded row or a review entry.
func Run(in Input) (*Result, error) {
	if in.Roster == nil || in.Roster.Len() == 0 {
		return nil, &InputError{Code: ErrCodeRosterEmpty, Message: "roster has no names"}
	}

	idx := match.NewRoster(in.Roster.Names())
	res := &Result{
		Records:        make(map[string]Record, in.Roster.Len()),
		TargetSessions: schedule.ParseSessions(in.Sessions),
	}
	rv := reviewer{idx: idx, res: res, seen: make(map[string]struct{})}

	online := rv.matchAll(SourceOnline, normalize.Names(in.Online))
	onsite := rv.matchAll(SourceOnsite, normalize.Names(in.Onsite))
	feedback := rv.matchAll(SourceFeedback, eligibleFeedback(in.Feedback, res.TargetSessions))

	for _, name := range in.Roster.Names() {
		if _, dup := res.Records[name]; dup {
			continue
		}
		rec := Record{Channel: ChannelNone, GaveFeedback: feedback.has(name)}
		switch {
		case onsite.has(name):
			rec.Channel = ChannelOnsite
		case online.has(name):
			rec.Channel = ChannelOnline
		}
		rec.Present = rec.Channel != ChannelNone
		res.Records[name] = rec
		res.Order = append(res.Order, name)

		if rec.GaveFeedback && !rec.Present {
			res.Ghosts = append(res.Ghosts, name)
		}
	}
	return res, nil
}

// eligibleFeedback returns the names of rows that count for the target
// sessions. Without a session column every row counts.
func eligibleFeedback(fb *tables.Feedback, target schedule.SessionSet) []string {
	if fb == nil {
		return nil
	}
	out := make([]string, 0, len(fb.Rows))
	for _, row := range fb.Rows {
		if fb.HasSession && !schedule.ExtractSessionNumbers(row.Session).Intersects(target) {
			continue
		}
		if n := strings.TrimSpace(row.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

type reviewer struct {
	idx  *match.Roster
	res  *Result
	seen map[string]struct{}
}

// matchAll matches names and collapses them to a set of roster names.
// Ambiguous and unmatched names are reported once per source.
func (rv *reviewer) matchAll(src Source, names []string) nameSet {
	set := make(nameSet, len(names))
	for _, n := range names {
		m := rv.idx.Match(n)
		if m.Matched {
			set[m.Name] = struct{}{}
		}
		if !rv.first(src, n) {
			continue
		}
		switch {
		case !m.Matched:
			u := Unmatched{Source: src, Name: n}
			if hint, ok := rv.idx.Suggest(n); ok {
				u.Hint = hint
			}
			rv.res.Unmatched = append(rv.res.Unmatched, u)
		case m.Ambiguous():
			rv.res.Ambiguous = append(rv.res.Ambiguous, Ambiguity{Source: src, Result: m})
		}
	}
	return set
}

func (rv *reviewer) first(src Source, name string) bool {
	k := string(src) + "\x00" + normalize.Key(name)
	if _, ok := rv.seen[k]; ok {
		return false
	}
	rv.seen[k] = struct{}{}
	return true
}

// Summary holds the headline counts of a run.
type Summary struct {
	Enrolled        int     `json:"enrolled"`
	Present         int     `json:"present"`
	Online          int     `json:"online"`
	Onsite          int     `json:"onsite"`
	GaveFeedback    int     `json:"gave_feedback"`
	PendingFeedback int     `json:"pending_feedback"`
	Ghosts          int     `json:"ghosts"`
	Ambiguous       int     `json:"ambiguous"`
	Unmatched       int     `json:"unmatched"`
	FeedbackPercent float64 `json:"feedback_percent"`
}

func (r *Result) Summary() Summary {
	s := Summary{
		Enrolled:  len(r.Order),
		Ghosts:    len(r.Ghosts),
		Ambiguous: len(r.Ambiguous),
		Unmatched: len(r.Unmatched),
	}
	for _, name := range r.Order {
		rec := r.Records[name]
		switch rec.Channel {
		case ChannelOnline:
			s.Online++
		case ChannelOnsite:
			s.Onsite++
		}
		if !rec.Present {
			continue
		}
		s.Present++
		if rec.GaveFeedback {
			s.GaveFeedback++
		} else {
			s.PendingFeedback++
		}
	}
	s.FeedbackPercent = percent(s.GaveFeedback, s.Present)
	return s
}

// FeedbackPercent is the share of present students who gave feedback,
// rounded to one decimal. It is 0 when nobody is present.
func (r *Result) FeedbackPercent() float64 {
	return r.Summary().FeedbackPercent
}

// PendingFeedback lists present students without feedback, in roster order.
func (r *Result) PendingFeedback() []string {
	var out []string
	for _, name := range r.Order {
		if rec := r.Records[name]; rec.Present && !rec.GaveFeedback {
			out = append(out, name)
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	// Half-to-even on the binary value: 1/16 is 6.2.
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(n)/float64(total)*100, 'f', 1, 64), 64)
	return v
}
