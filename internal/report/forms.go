package report

import (
	"fmt"
	"strconv"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
)

type PayrollRow struct {
	Date         string `json:"date"`
	Course       string `json:"course"`
	Sessions     string `json:"sessions"`
	SessionCount int    `json:"session_count"`
	Fee          int64  `json:"fee"`
	Total        int64  `json:"total"`
	Evidence     string `json:"evidence"`
}

// Payroll bills the per-session fee for every session in the descriptor,
// at least one.
func Payroll(c Class) PayrollRow {
	n := c.SessionSet().Len()
	if n == 0 {
		n = 1
	}
	return PayrollRow{
		Date:         c.Date,
		Course:       c.CourseTitle,
		Sessions:     c.Sessions,
		SessionCount: n,
		Fee:          c.Fee,
		Total:        c.Fee * int64(n),
		Evidence:     EvidenceFileName(c),
	}
}

func (p PayrollRow) Table() Table {
	return Table{
		Headers: []string{"Tanggal", "Matkul", "Sesi", "Jml Sesi", "Fee/Sesi", "Total", "Bukti"},
		Rows: [][]string{{
			p.Date, p.Course, p.Sessions, strconv.Itoa(p.SessionCount),
			strconv.FormatInt(p.Fee, 10), strconv.FormatInt(p.Total, 10), p.Evidence,
		}},
	}
}

var checklistTasks = []string{
	"Reminder H-1/H-Jam",
	"Dosen Hadir & Materi Siap",
	"Host Zoom Claim",
	"Absensi & Screenshot",
	"Recording Berjalan",
	"Upload GDrive",
	"Laporan Fasil (Sistem)",
	"Update Feedback",
}

type ChecklistItem struct {
	No     int    `json:"no"`
	Task   string `json:"task"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

type Checklist []ChecklistItem

// NewChecklist returns the facilitator's per-class task list, all ticked.
func NewChecklist() Checklist {
	out := make(Checklist, len(checklistTasks))
	for i, task := range checklistTasks {
		out[i] = ChecklistItem{No: i + 1, Task: task, Status: "v", Note: "Done"}
	}
	return out
}

func (c Checklist) Table() Table {
	t := Table{Headers: []string{"No", "Task", "Status", "Ket"}}
	for _, it := range c {
		t.Rows = append(t.Rows, []string{strconv.Itoa(it.No), it.Task, it.Status, it.Note})
	}
	return t
}

type FacilitatorRow struct {
	InstructorDate string `json:"instructor_date"`
	Course         string `json:"course"`
	TimeRange      string `json:"time_range"`
	Type           string `json:"type"`
	Sessions       string `json:"sessions"`
	Evidence       string `json:"evidence"`
	Validation     string `json:"validation"`
	Summary        string `json:"summary"`
	Percent        string `json:"percent"`
}

// Facilitator builds the facilitator report row for one class.
func Facilitator(c Class, s reconcile.Summary) FacilitatorRow {
	summary := fmt.Sprintf("Kelas: %s\nJam: %s\nSesi: %s\nMhs Terdaftar: %d\nHadir: %d\nFeedback: %d | Belum: %d",
		c.ClassCode, c.TimeRange, c.Sessions, s.Enrolled, s.Present, s.GaveFeedback, s.PendingFeedback)
	return FacilitatorRow{
		InstructorDate: c.Instructor + "\n" + c.Date,
		Course:         c.CourseTitle,
		TimeRange:      c.TimeRange,
		Type:           c.ModeType(),
		Sessions:       c.Sessions,
		Evidence:       EvidenceFileName(c),
		Validation:     "Valid",
		Summary:        summary,
		Percent:        strconv.FormatFloat(s.FeedbackPercent, 'f', 1, 64) + "%",
	}
}

func (f FacilitatorRow) Table() Table {
	return Table{
		Headers: []string{"Dosen/Tgl", "Matkul", "Jam", "Tipe", "Sesi", "Bukti", "Validasi", "Feedback Summary", "Persentase FB"},
		Rows: [][]string{{
			f.InstructorDate, f.Course, f.TimeRange, f.Type, f.Sessions,
			f.Evidence, f.Validation, f.Summary, f.Percent,
		}},
	}
}
