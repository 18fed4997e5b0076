package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Another0Noob/attendance-recon/internal/logger"
	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shared() Shared {
	return Shared{
		Roster: tables.RosterFromNames([]string{"Budi Santoso", "Siti Aminah", "Dewi Sartika"}),
		Feedback: &tables.Feedback{HasSession: true, Rows: []tables.FeedbackRow{
			{Name: "Budi Santoso", Session: "Pertemuan 1"},
			{Name: "Siti Aminah", Session: "Pertemuan 2"},
		}},
		Fee:  150000,
		Mode: "Online",
	}
}

func mapSource(lines map[int64][2][]string) Source {
	return func(row schedule.Row) ([]string, []string, error) {
		l, ok := lines[row.ID]
		if !ok {
			return nil, nil, errors.New("no participants")
		}
		return l[0], l[1], nil
	}
}

func TestRunner_SequentialRows(t *testing.T) {
	rows := []schedule.Row{
		{ID: 1, Text: "Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina Pertemuan 1"},
		{ID: 2, Text: "Rabu Sinta 09.00 - 11.00 Statistika ST101 Budi Hartono Pertemuan 2", Fee: 200000, Mode: "Onsite"},
	}
	var progress []int
	r := &Runner{
		Shared: shared(),
		Source: mapSource(map[int64][2][]string{
			1: {{"Budi Santoso", "Siti"}, nil},
			2: {nil, {"Siti Aminah", "Dewi"}},
		}),
		Progress: func(done, total int, _ Outcome) { progress = append(progress, done*10+total) },
		Log:      logger.Discard(),
	}

	out, err := r.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []int{12, 22}, progress)

	first := out[0]
	require.NoError(t, first.Err)
	assert.True(t, first.Result.Records["Budi Santoso"].GaveFeedback)
	assert.False(t, first.Result.Records["Siti Aminah"].GaveFeedback)
	assert.Equal(t, "IF23", first.Report.Class.ClassCode)
	assert.Equal(t, int64(150000), first.Report.Payroll.Total)
	assert.Equal(t, "001_IF23", first.Name(0))

	second := out[1]
	require.NoError(t, second.Err)
	assert.Equal(t, reconcile.ChannelOnsite, second.Result.Records["Siti Aminah"].Channel)
	assert.True(t, second.Result.Records["Siti Aminah"].GaveFeedback)
	assert.False(t, second.Result.Records["Budi Santoso"].GaveFeedback)
	assert.Equal(t, int64(200000), second.Report.Payroll.Total)
	assert.Equal(t, "Onsite", second.Report.Class.Mode)
}

func TestRunner_SharedInputsUntouched(t *testing.T) {
	sh := shared()
	rosterBefore := *sh.Roster
	rosterBefore.Entries = append([]tables.RosterEntry(nil), sh.Roster.Entries...)
	fbBefore := *sh.Feedback
	fbBefore.Rows = append([]tables.FeedbackRow(nil), sh.Feedback.Rows...)

	rows := []schedule.Row{{ID: 1, Sessions: "1"}, {ID: 2, Sessions: "2"}, {ID: 3, Sessions: "1 & 2"}}
	r := &Runner{
		Shared: sh,
		Source: func(schedule.Row) ([]string, []string, error) {
			return []string{"1. Budi Santoso", "Host", "Siti"}, []string{"Dewi"}, nil
		},
		Log: logger.Discard(),
	}
	_, err := r.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, rosterBefore, *sh.Roster)
	assert.Equal(t, fbBefore, *sh.Feedback)
}

func TestRunner_RowFailureDoesNotStopBatch(t *testing.T) {
	rows := []schedule.Row{{ID: 1, Sessions: "1"}, {ID: 2, Sessions: "1"}}
	r := &Runner{
		Shared: shared(),
		Source: mapSource(map[int64][2][]string{2: {{"Budi"}, nil}}),
		Log:    logger.Discard(),
	}
	out, err := r.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Error(t, out[0].Err)
	assert.Equal(t, "no participants", out[0].Error)
	assert.Nil(t, out[0].Report)
	assert.NoError(t, out[1].Err)
	assert.Equal(t, "001_KODE", out[0].Name(0))
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rows := []schedule.Row{{ID: 1}, {ID: 2}, {ID: 3}}
	r := &Runner{
		Shared: shared(),
		Source: func(schedule.Row) ([]string, []string, error) { return nil, nil, nil },
		Progress: func(done, _ int, _ Outcome) {
			if done == 1 {
				cancel()
			}
		},
		Log: logger.Discard(),
	}
	out, err := r.Run(ctx, rows)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out, 1)
}

func TestRunner_FilesSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "online.txt"), []byte("Budi Santoso\n"), 0o644))

	sh := shared()
	sh.BaseDir = dir
	r := &Runner{Shared: sh, Log: logger.Discard()}

	out, err := r.Run(context.Background(), []schedule.Row{
		{ID: 1, Sessions: "1", OnlineFile: "online.txt"},
		{ID: 2, Sessions: "1", OnsiteFile: "missing.txt"},
	})
	require.NoError(t, err)
	require.NoError(t, out[0].Err)
	assert.True(t, out[0].Result.Records["Budi Santoso"].Present)
	assert.Error(t, out[1].Err)
}

func TestReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.csv")
	data := "schedule_text,class_date,fee,online_file\n" +
		"\"Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina Pertemuan 1\",2026-10-05,175000,if23.txt\n" +
		"Kalkulus MTK1 Pertemuan 2,2026-10-06,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(175000), rows[0].Fee)
	assert.Equal(t, "if23.txt", rows[0].OnlineFile)
	assert.Equal(t, "IF23", rows[0].Info().ClassCode)
	assert.Equal(t, int64(0), rows[1].Fee)
	assert.Equal(t, "2", rows[1].Info().Sessions)
}

func TestReadRows_BadFee(t *testing.T) {
	_, err := RowsFromSheet(&tables.Sheet{Headers: []string{"fee"}, Records: [][]string{{"abc"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid fee")
}
