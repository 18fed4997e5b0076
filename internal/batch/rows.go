package batch

import (
	"fmt"
	"strconv"

	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
)

// ReadRows reads a schedule sheet whose headers use the class_schedules
// column names. schedule_text, or at least one structured column, is
// expected; missing columns read as empty.
func ReadRows(path string) ([]schedule.Row, error) {
	sheet, err := tables.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedules: %w", err)
	}
	return RowsFromSheet(sheet)
}

func RowsFromSheet(sheet *tables.Sheet) ([]schedule.Row, error) {
	col := make(map[string]int, len(sheet.Headers))
	for i, h := range sheet.Headers {
		col[h] = i
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok {
			return ""
		}
		return tables.Cell(rec, i)
	}

	rows := make([]schedule.Row, 0, len(sheet.Records))
	for n, rec := range sheet.Records {
		r := schedule.Row{
			ID:          int64(n + 1),
			Text:        get(rec, "schedule_text"),
			Date:        get(rec, "class_date"),
			Day:         get(rec, "day"),
			TimeRange:   get(rec, "time_range"),
			Facilitator: get(rec, "facilitator"),
			Sessions:    get(rec, "sessions"),
			ClassCode:   get(rec, "class_code"),
			CourseTitle: get(rec, "course_title"),
			Instructor:  get(rec, "instructor"),
			Mode:        get(rec, "mode"),
			OnlineFile:  get(rec, "online_file"),
			OnsiteFile:  get(rec, "onsite_file"),
		}
		if fee := get(rec, "fee"); fee != "" {
			v, err := strconv.ParseInt(fee, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid fee %q: %w", n+1, fee, err)
			}
			r.Fee = v
		}
		rows = append(rows, r)
	}
	return rows, nil
}
