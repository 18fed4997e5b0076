package schedule

import "strings"

// Row is one class occurrence as stored in a schedule table. Text holds the
// free-form line; the structured columns, when set, win over what Parse
// extracts from it.
type Row struct {
	ID          int64  `json:"id"`
	Text        string `json:"schedule_text"`
	Date        string `json:"class_date"`
	Day         string `json:"day"`
	TimeRange   string `json:"time_range"`
	Facilitator string `json:"facilitator"`
	Sessions    string `json:"sessions"`
	ClassCode   string `json:"class_code"`
	CourseTitle string `json:"course_title"`
	Instructor  string `json:"instructor"`
	Mode        string `json:"mode"`
	Fee         int64  `json:"fee"`
	OnlineFile  string `json:"online_file"`
	OnsiteFile  string `json:"onsite_file"`
}

// Info parses Text and overlays the non-empty structured columns.
func (r Row) Info() Info {
	info := Parse(r.Text)
	overlay := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	overlay(&info.Day, r.Day)
	overlay(&info.TimeRange, r.TimeRange)
	overlay(&info.Facilitator, r.Facilitator)
	overlay(&info.Sessions, r.Sessions)
	overlay(&info.ClassCode, r.ClassCode)
	overlay(&info.CourseTitle, r.CourseTitle)
	overlay(&info.Instructor, r.Instructor)
	return info
}
