package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClass(sessions string) Class {
	info := schedule.Parse("Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina 23 Reg Pertemuan " + sessions)
	return Class{Info: info, Date: "06 Oktober 2026", Fee: 150000, Mode: "Online (Zoom)"}
}

func testRun(t *testing.T, sessions string) (*reconcile.Result, *tables.Roster) {
	t.Helper()
	roster, err := tables.NewRoster(&tables.Sheet{
		Headers: []string{"NIM", "Nama"},
		Records: [][]string{
			{"2301", "Budi Santoso"},
			{"2302", "Siti Aminah"},
			{"2303", "Dewi Sartika"},
			{"2304", "Rahmat Hidayat"},
		},
	})
	require.NoError(t, err)

	res, err := reconcile.Run(reconcile.Input{
		Roster: roster,
		Online: []string{"Budi Santoso", "Dewi"},
		Onsite: []string{"Siti Aminah"},
		Feedback: &tables.Feedback{Rows: []tables.FeedbackRow{
			{Name: "Budi Santoso"},
			{Name: "Siti Aminah"},
		}},
		Sessions: sessions,
	})
	require.NoError(t, err)
	return res, roster
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		rec  reconcile.Record
		want Code
	}{
		{reconcile.Record{Channel: reconcile.ChannelNone}, CodeAbsent},
		{reconcile.Record{Channel: reconcile.ChannelNone, GaveFeedback: true}, CodeAbsent},
		{reconcile.Record{Present: true, Channel: reconcile.ChannelOnline, GaveFeedback: true}, CodeOnlineWithFeedback},
		{reconcile.Record{Present: true, Channel: reconcile.ChannelOnline}, CodeOnlineNoFeedback},
		{reconcile.Record{Present: true, Channel: reconcile.ChannelOnsite, GaveFeedback: true}, CodeOnsiteWithFeedback},
		{reconcile.Record{Present: true, Channel: reconcile.ChannelOnsite}, CodeOnsiteNoFeedback},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeFor(tt.rec), "%+v", tt.rec)
	}
	assert.True(t, CodeOnsiteNoFeedback.Pending())
	assert.False(t, CodeAbsent.Pending())
}

func TestPresence_FillsTargetSessionsOnly(t *testing.T) {
	res, roster := testRun(t, "2 & 3")
	sheet := Presence(res, roster)

	require.Len(t, sheet.Rows, 4)
	budi := sheet.Rows[0]
	assert.Equal(t, "2301", budi.ID)
	assert.Equal(t, CodeBlank, budi.Cells[0])
	assert.Equal(t, CodeOnlineWithFeedback, budi.Cells[1])
	assert.Equal(t, CodeOnlineWithFeedback, budi.Cells[2])
	assert.Equal(t, CodeBlank, budi.Cells[3])

	assert.Equal(t, CodeOnsiteWithFeedback, sheet.Rows[1].Cells[1])
	assert.Equal(t, CodeOnlineNoFeedback, sheet.Rows[2].Cells[1])
	assert.Equal(t, CodeAbsent, sheet.Rows[3].Cells[2])
}

func TestPresence_IgnoresOutOfRangeSessions(t *testing.T) {
	res, roster := testRun(t, "0, 16, 17")
	sheet := Presence(res, roster)

	for _, row := range sheet.Rows {
		for i, c := range row.Cells {
			if i == MaxSessions-1 {
				assert.NotEqual(t, CodeBlank, c)
				continue
			}
			assert.Equal(t, CodeBlank, c, "session %d", i+1)
		}
	}
}

func TestPresence_Table(t *testing.T) {
	res, roster := testRun(t, "1")
	tbl := Presence(res, roster).Table()

	assert.Len(t, tbl.Headers, 2+MaxSessions)
	assert.Equal(t, []string{"NIM", "Nama", "Sesi 1"}, tbl.Headers[:3])
	assert.Equal(t, "Sesi 16", tbl.Headers[len(tbl.Headers)-1])
	assert.Equal(t, []string{"2301", "Budi Santoso", "O"}, tbl.Rows[0][:3])
}

func TestPayroll(t *testing.T) {
	p := Payroll(testClass("1 & 2"))
	assert.Equal(t, 2, p.SessionCount)
	assert.Equal(t, int64(300000), p.Total)

	// A descriptor without numbers still bills one session.
	c := testClass("1")
	c.Sessions = "tba"
	p = Payroll(c)
	assert.Equal(t, 1, p.SessionCount)
	assert.Equal(t, int64(150000), p.Total)
}

func TestEvidenceFileName(t *testing.T) {
	c := testClass("1 & 2")
	c.Date = "06/10/2026"
	assert.Equal(t, "Basis Data_Sesi 1 & 2_06-10-2026_IF23_Dr. Rina.jpg", EvidenceFileName(c))
}

func TestChecklist(t *testing.T) {
	c := NewChecklist()
	require.Len(t, c, 8)
	assert.Equal(t, ChecklistItem{No: 1, Task: "Reminder H-1/H-Jam", Status: "v", Note: "Done"}, c[0])
	assert.Equal(t, "Update Feedback", c[7].Task)
}

func TestFacilitator(t *testing.T) {
	res, _ := testRun(t, "1")
	f := Facilitator(testClass("1"), res.Summary())

	assert.Equal(t, "Dr. Rina\n06 Oktober 2026", f.InstructorDate)
	assert.Equal(t, "Online", f.Type)
	assert.Equal(t, "66.7%", f.Percent)
	assert.Contains(t, f.Summary, "Mhs Terdaftar: 4")
	assert.Contains(t, f.Summary, "Hadir: 3")
	assert.Contains(t, f.Summary, "Feedback: 2 | Belum: 1")
}

func TestTable_WriteTSVAndCSV(t *testing.T) {
	tbl := Table{Headers: []string{"No", "Task"}, Rows: [][]string{{"1", "Upload, GDrive"}}}

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteTSV(&buf))
	assert.Equal(t, "No\tTask\n1\tUpload, GDrive\n", buf.String())

	buf.Reset()
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Equal(t, "No,Task\n1,\"Upload, GDrive\"\n", buf.String())
}

func TestBundle_WriteDir(t *testing.T) {
	res, roster := testRun(t, "1")
	b := Build(testClass("1"), res, roster)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := b.WriteDir(dir, "IF23")
	require.NoError(t, err)
	require.Len(t, paths, 4)

	data, err := os.ReadFile(filepath.Join(dir, "IF23_gaji.tsv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Tanggal\tMatkul"))
}
