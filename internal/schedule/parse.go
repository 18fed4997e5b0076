// Package schedule extracts class details from free-form schedule text and
// turns session descriptors into session sets.
//
// Schedule text is copy-pasted from chat messages and sheets without a fixed
// grammar, so Parse is an ordered cascade of heuristics. Each step works on
// the residual left by the previous one and falls back to a placeholder when
// it finds nothing; Parse never fails.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholders used when a field cannot be extracted.
const (
	DefaultTimeRange   = "00:00 - 00:00"
	DefaultFacilitator = "Facilitator"
	DefaultSessions    = "1"
	DefaultClassCode   = "KODE"
	DefaultCourseTitle = "Course"
	DefaultInstructor  = "Lecturer"
	DefaultClassType   = "Reguler"
)

// Info is the structured view of one schedule line.
type Info struct {
	Day         string   `json:"day,omitempty"`
	TimeRange   string   `json:"time_range"`
	Facilitator string   `json:"facilitator"`
	Sessions    string   `json:"sessions"`
	ClassCode   string   `json:"class_code"`
	CourseTitle string   `json:"course_title"`
	Instructor  string   `json:"instructor"`
	ClassTypes  []string `json:"class_types"`
}

// ClassType joins the detected class types, e.g. "Reguler & Profesional".
func (i Info) ClassType() string {
	if len(i.ClassTypes) == 0 {
		return DefaultClassType
	}
	return strings.Join(i.ClassTypes, " & ")
}

// SessionSet parses the session descriptor.
func (i Info) SessionSet() SessionSet {
	return ParseSessions(i.Sessions)
}

var (
	reTimeRange = regexp.MustCompile(`(\d{1,2})[.:](\d{2})\s*[-–]\s*(\d{1,2})[.:](\d{2})`)
	reWeekday   = regexp.MustCompile(`(?i)^\s*(senin|selasa|rabu|kamis|jum'?at|sabtu|minggu|ahad|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b[\s,.:\-]*`)
	reSession   = regexp.MustCompile(`(?i)\b(?:pertemuan|sesi|session)\s*[:#]?\s*(\d+(?:\s*(?:&|,|-|\band\b|\bdan\b)\s*\d+)*)`)
	reClassCode = regexp.MustCompile(`\b([A-Za-z]{1,5}\d{1,3})`)
	reTokenTail = regexp.MustCompile(`^[A-Za-z0-9]+`)
	reNoise     = regexp.MustCompile(`(?i)(,|\b\d{2}\b|\b(?:reguler|reg|profesional|pro|akselerasi|aksel|pertemuan|sesi|session|jakarta|bandung|surabaya|yogyakarta|jogja|medan|semarang|makassar|bali|online|onsite)\b)`)
)

var classTypes = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Reguler", regexp.MustCompile(`(?i)\b(?:reguler|regular|reg)\b`)},
	{"Profesional", regexp.MustCompile(`(?i)\b(?:profesional|professional|pro)\b`)},
	{"Akselerasi", regexp.MustCompile(`(?i)\b(?:akselerasi|aksel)\b`)},
}

var weekdays = map[string]string{
	"senin": "Senin", "selasa": "Selasa", "rabu": "Rabu", "kamis": "Kamis",
	"jumat": "Jumat", "jum'at": "Jumat", "sabtu": "Sabtu", "minggu": "Minggu", "ahad": "Minggu",
	"monday": "Monday", "tuesday": "Tuesday", "wednesday": "Wednesday", "thursday": "Thursday",
	"friday": "Friday", "saturday": "Saturday", "sunday": "Sunday",
}

const fieldTrim = " \t,-|:;"

// Parse extracts schedule fields from one free-form line such as
//
//	Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina 23 Reg Pertemuan 1 & 2
func Parse(text string) Info {
	info := Info{
		TimeRange:   DefaultTimeRange,
		Facilitator: DefaultFacilitator,
		Sessions:    DefaultSessions,
		ClassCode:   DefaultClassCode,
		CourseTitle: DefaultCourseTitle,
		Instructor:  DefaultInstructor,
	}

	// 1. Time range splits day+facilitator prefix from the residual.
	residual := text
	prefix := ""
	if m := reTimeRange.FindStringSubmatchIndex(text); m != nil {
		info.TimeRange = formatTimeRange(text, m)
		prefix = text[:m[0]]
		residual = text[m[1]:]
	}

	// 2. Leading weekday, then whatever remains of the prefix is the facilitator.
	if m := reWeekday.FindStringSubmatchIndex(prefix); m != nil {
		info.Day = weekdays[strings.ToLower(prefix[m[2]:m[3]])]
		prefix = prefix[m[1]:]
	}
	if f := strings.Trim(prefix, fieldTrim); f != "" {
		info.Facilitator = f
	}

	// 3. Session descriptor.
	if m := reSession.FindStringSubmatch(residual); m != nil {
		info.Sessions = strings.TrimSpace(m[1])
	}

	// 4. Class code.
	codeAt := reClassCode.FindStringSubmatchIndex(residual)
	if codeAt != nil {
		info.ClassCode = residual[codeAt[2]:codeAt[3]]
	}

	// 5. Course title left of the code, instructor right of it up to the
	// first noise token.
	if codeAt != nil {
		if title := strings.Trim(residual[:codeAt[2]], fieldTrim); title != "" {
			info.CourseTitle = title
		}
		// A code cut from a longer token (TI23A, CS1010) leaves its tail behind.
		rest := residual[codeAt[3]:]
		rest = rest[len(reTokenTail.FindString(rest)):]
		if loc := reNoise.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		if instructor := strings.Trim(rest, fieldTrim); instructor != "" {
			info.Instructor = instructor
		}
	}

	// 6. Class types are scanned over the whole text.
	for _, ct := range classTypes {
		if ct.re.MatchString(text) {
			info.ClassTypes = append(info.ClassTypes, ct.name)
		}
	}
	if len(info.ClassTypes) == 0 {
		info.ClassTypes = []string{DefaultClassType}
	}

	return info
}

func formatTimeRange(text string, m []int) string {
	group := func(i int) string { return text[m[2*i]:m[2*i+1]] }
	hour := func(i int) int {
		h, _ := strconv.Atoi(group(i))
		return h
	}
	return fmt.Sprintf("%02d:%s - %02d:%s", hour(1), group(2), hour(3), group(4))
}
