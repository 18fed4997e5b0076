// Package scheduledb persists class schedule rows in PostgreSQL or SQLite.
package scheduledb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Another0Noob/attendance-recon/internal/schedule"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

type dialect struct {
	driver   string
	idColumn string
	dollar   bool
}

var (
	postgres = dialect{driver: "postgres", idColumn: "BIGSERIAL PRIMARY KEY", dollar: true}
	sqlite   = dialect{driver: "sqlite", idColumn: "INTEGER PRIMARY KEY"}
)

// Store reads and writes the class_schedules table.
type Store struct {
	db *sql.DB
	d  dialect
}

// Open picks the driver from the DSN: postgres:// and postgresql:// URLs go
// to PostgreSQL; sqlite:// URLs and bare paths go to SQLite.
func Open(ctx context.Context, dsn string) (*Store, error) {
	d, source, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if d.driver == sqlite.driver && source != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(source), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if d.driver == sqlite.driver {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
	}
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db, d: d}, nil
}

func parseDSN(dsn string) (dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return dialect{}, "", fmt.Errorf("empty database DSN")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite, strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.Contains(dsn, "://"):
		return dialect{}, "", fmt.Errorf("unsupported database DSN scheme: %s", dsn[:strings.Index(dsn, "://")])
	default:
		return sqlite, dsn, nil
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string { return s.d.driver }

// Migrate creates the schedule table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS class_schedules (
			id ` + s.d.idColumn + `,
			schedule_text TEXT NOT NULL DEFAULT '',
			class_date TEXT NOT NULL DEFAULT '',
			day TEXT NOT NULL DEFAULT '',
			time_range TEXT NOT NULL DEFAULT '',
			facilitator TEXT NOT NULL DEFAULT '',
			sessions TEXT NOT NULL DEFAULT '',
			class_code TEXT NOT NULL DEFAULT '',
			course_title TEXT NOT NULL DEFAULT '',
			instructor TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL DEFAULT '',
			fee BIGINT NOT NULL DEFAULT 0,
			online_file TEXT NOT NULL DEFAULT '',
			onsite_file TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_class_schedules_date ON class_schedules(class_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const columns = `schedule_text, class_date, day, time_range, facilitator, sessions, class_code,
	course_title, instructor, mode, fee, online_file, onsite_file`

func (s *Store) insertQuery() string {
	return s.rebind(`INSERT INTO class_schedules (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
}

func rowArgs(r schedule.Row) []any {
	return []any{
		r.Text, r.Date, r.Day, r.TimeRange, r.Facilitator, r.Sessions, r.ClassCode,
		r.CourseTitle, r.Instructor, r.Mode, r.Fee, r.OnlineFile, r.OnsiteFile,
	}
}

// Insert stores r and returns its new id.
func (s *Store) Insert(ctx context.Context, r schedule.Row) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, s.insertQuery(), rowArgs(r)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error inserting schedule: %w", err)
	}
	return id, nil
}

// InsertAll stores rows in one transaction and returns their ids in order.
func (s *Store) InsertAll(ctx context.Context, rows []schedule.Row) (ids []int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := s.insertQuery()
	for _, r := range rows {
		var id int64
		if err = tx.QueryRowContext(ctx, query, rowArgs(r)...).Scan(&id); err != nil {
			return nil, fmt.Errorf("error inserting schedule: %w", err)
		}
		ids = append(ids, id)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// List returns schedule rows ordered by id. An empty date returns every row.
func (s *Store) List(ctx context.Context, date string) ([]schedule.Row, error) {
	query := `SELECT id, ` + columns + ` FROM class_schedules`
	var args []any
	if date != "" {
		query += ` WHERE class_date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer rows.Close()

	var out []schedule.Row
	for rows.Next() {
		var r schedule.Row
		if err := rows.Scan(&r.ID, &r.Text, &r.Date, &r.Day, &r.TimeRange, &r.Facilitator, &r.Sessions,
			&r.ClassCode, &r.CourseTitle, &r.Instructor, &r.Mode, &r.Fee, &r.OnlineFile, &r.OnsiteFile); err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	return out, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if !s.d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
