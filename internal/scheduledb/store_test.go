package scheduledb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "db", "schedules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		source string
	}{
		{"postgres://u:p@localhost/db?sslmode=disable", "postgres", "postgres://u:p@localhost/db?sslmode=disable"},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db"},
		{"sqlite:///tmp/a.db", "sqlite", "/tmp/a.db"},
		{"sqlite:a.db", "sqlite", "a.db"},
		{"schedules.db", "sqlite", "schedules.db"},
	}
	for _, tt := range tests {
		d, src, err := parseDSN(tt.dsn)
		require.NoError(t, err, tt.dsn)
		assert.Equal(t, tt.driver, d.driver, tt.dsn)
		assert.Equal(t, tt.source, src, tt.dsn)
	}

	_, _, err := parseDSN("mysql://localhost/db")
	assert.Error(t, err)
	_, _, err = parseDSN("  ")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &Store{d: postgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Store{d: sqlite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestStore_InsertList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	assert.Equal(t, "sqlite", s.Driver())

	id, err := s.Insert(ctx, schedule.Row{
		Text: "Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina Pertemuan 1",
		Date: "2026-10-05",
		Fee:  150000,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	ids, err := s.InsertAll(ctx, []schedule.Row{
		{Text: "Statistika ST101 Budi Hartono Pertemuan 3", Date: "2026-10-06", Mode: "Onsite"},
		{ClassCode: "WEB2", CourseTitle: "Pemrograman Web", Sessions: "4", Date: "2026-10-06"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, int64(150000), all[0].Fee)
	assert.Equal(t, "IF23", all[0].Info().ClassCode)

	day, err := s.List(ctx, "2026-10-06")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Onsite", day[0].Mode)
	assert.Equal(t, "WEB2", day[1].Info().ClassCode)
	assert.Equal(t, "Pemrograman Web", day[1].Info().CourseTitle)
}

func TestStore_MigrateIdempotent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Migrate(context.Background()))
}
