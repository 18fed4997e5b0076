// Package render prints reconciliation results to a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	presentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#006100")).Background(lipgloss.Color("#C6EFCE"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9C0006")).Background(lipgloss.Color("#FFC7CE"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cardStyle       = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Printer writes styled output. With Color off every style is skipped and
// the output is plain text.
type Printer struct {
	W     io.Writer
	Color bool
}

func (p Printer) style(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}

// Summary prints the headline metrics as a row of cards.
func (p Printer) Summary(b report.Bundle) {
	s := b.Summary
	cards := []struct{ title, value string }{
		{"Hadir", fmt.Sprintf("%d/%d", s.Present, s.Enrolled)},
		{"Sudah Feedback", strconv.Itoa(s.GaveFeedback)},
		{"Belum Feedback", strconv.Itoa(s.PendingFeedback)},
		{"Persentase FB", strconv.FormatFloat(s.FeedbackPercent, 'f', 1, 64) + "%"},
		{"Estimasi Gaji", "Rp " + thousands(b.Payroll.Total)},
	}

	fmt.Fprintf(p.W, "%s %s | %s | Sesi %s\n",
		p.style(warnStyle, b.Class.ClassCode), b.Class.CourseTitle, b.Class.TimeRange, b.Class.Sessions)
	if !p.Color {
		for _, c := range cards {
			fmt.Fprintf(p.W, "%-16s %s\n", c.title+":", c.value)
		}
		fmt.Fprintf(p.W, "Bukti: %s\n", b.Evidence)
		return
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Render(cardTitleStyle.Render(c.title) + "\n" + cardValueStyle.Render(c.value))
	}
	fmt.Fprintln(p.W, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	fmt.Fprintf(p.W, "%s %s\n", p.style(headerStyle, "Bukti:"), b.Evidence)
}

// Review prints the lists a human must check: ambiguous matches, ghosts,
// unmatched names and students still owing feedback.
func (p Printer) Review(res *reconcile.Result) {
	if len(res.Ambiguous) > 0 {
		fmt.Fprintln(p.W, p.style(warnStyle, "Ambiguous matches:"))
		for _, a := range res.Ambiguous {
			fmt.Fprintf(p.W, "  [%s] %s -> %s (candidates: %s)\n", a.Source, a.Input, a.Name, strings.Join(a.Conflicts, ", "))
		}
	}
	if len(res.Ghosts) > 0 {
		fmt.Fprintln(p.W, p.style(warnStyle, "Feedback without attendance:"))
		for _, g := range res.Ghosts {
			fmt.Fprintf(p.W, "  %s\n", g)
		}
	}
	if len(res.Unmatched) > 0 {
		fmt.Fprintln(p.W, p.style(warnStyle, "Unmatched names:"))
		for _, u := range res.Unmatched {
			if u.Hint != "" {
				fmt.Fprintf(p.W, "  [%s] %s (closest: %s)\n", u.Source, u.Name, u.Hint)
				continue
			}
			fmt.Fprintf(p.W, "  [%s] %s\n", u.Source, u.Name)
		}
	}
	if pending := res.PendingFeedback(); len(pending) > 0 {
		fmt.Fprintln(p.W, p.style(warnStyle, "Belum feedback:"))
		for _, n := range pending {
			fmt.Fprintf(p.W, "  %s\n", n)
		}
	}
}

// maxNameWidth caps the name column; longer names are truncated with "…".
const maxNameWidth = 32

// Presence prints the presence sheet restricted to the target sessions.
func (p Printer) Presence(sheet report.PresenceSheet, sessions []int) {
	var cols []int
	for _, s := range sessions {
		if s >= 1 && s <= report.MaxSessions {
			cols = append(cols, s)
		}
	}

	nameW := runewidth.StringWidth(sheet.NameHeader)
	idW := runewidth.StringWidth(sheet.IDHeader)
	for _, r := range sheet.Rows {
		nameW = max(nameW, runewidth.StringWidth(r.Name))
		idW = max(idW, runewidth.StringWidth(r.ID))
	}
	nameW = min(nameW, maxNameWidth)

	var hdr strings.Builder
	if sheet.IDHeader != "" {
		hdr.WriteString(runewidth.FillRight(sheet.IDHeader, idW) + "  ")
	}
	hdr.WriteString(runewidth.FillRight(sheet.NameHeader, nameW))
	for _, s := range cols {
		hdr.WriteString("  " + runewidth.FillRight("S"+strconv.Itoa(s), 3))
	}
	fmt.Fprintln(p.W, p.style(headerStyle, strings.TrimRight(hdr.String(), " ")))

	for _, r := range sheet.Rows {
		var line strings.Builder
		if sheet.IDHeader != "" {
			line.WriteString(runewidth.FillRight(r.ID, idW) + "  ")
		}
		line.WriteString(runewidth.FillRight(runewidth.Truncate(r.Name, nameW, "…"), nameW))
		for _, s := range cols {
			line.WriteString("  " + p.code(r.Cells[s-1]))
		}
		fmt.Fprintln(p.W, strings.TrimRight(line.String(), " "))
	}
}

func (p Printer) code(c report.Code) string {
	cell := runewidth.FillRight(string(c), 3)
	switch {
	case c == report.CodeOnlineWithFeedback || c == report.CodeOnsiteWithFeedback:
		return p.style(presentStyle, cell)
	case c.Pending():
		return p.style(pendingStyle, cell)
	default:
		return cell
	}
}

// thousands formats n with "." grouping, e.g. 300.000.
func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
