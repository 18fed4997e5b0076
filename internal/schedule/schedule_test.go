package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullLine(t *testing.T) {
	info := Parse("Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina 23 Reg Pertemuan 1 & 2")

	assert.Equal(t, "Senin", info.Day)
	assert.Equal(t, "Andi", info.Facilitator)
	assert.Equal(t, "08:00 - 10:30", info.TimeRange)
	assert.Equal(t, "1 & 2", info.Sessions)
	assert.Equal(t, "IF23", info.ClassCode)
	assert.Equal(t, "Basis Data", info.CourseTitle)
	assert.Equal(t, "Dr. Rina", info.Instructor)
	assert.Equal(t, []string{"Reguler"}, info.ClassTypes)
	assert.Equal(t, NewSessionSet(1, 2), info.SessionSet())
}

func TestParse_ColonTimeAndMultipleTypes(t *testing.T) {
	info := Parse("Rabu, Sinta 9:00-11:00 Statistika ST101 Budi Hartono, Pro & Aksel Pertemuan 3")

	assert.Equal(t, "Rabu", info.Day)
	assert.Equal(t, "Sinta", info.Facilitator)
	assert.Equal(t, "09:00 - 11:00", info.TimeRange)
	assert.Equal(t, "3", info.Sessions)
	assert.Equal(t, "ST101", info.ClassCode)
	assert.Equal(t, "Statistika", info.CourseTitle)
	assert.Equal(t, "Budi Hartono", info.Instructor)
	assert.Equal(t, []string{"Profesional", "Akselerasi"}, info.ClassTypes)
	assert.Equal(t, "Profesional & Akselerasi", info.ClassType())
}

func TestParse_CodeInsideLongerToken(t *testing.T) {
	info := Parse("Senin Andi 08.00 - 10.30 Basis Data TI23A Dr. Rina Pertemuan 1")
	assert.Equal(t, "TI23", info.ClassCode)
	assert.Equal(t, "Basis Data", info.CourseTitle)
	assert.Equal(t, "Dr. Rina", info.Instructor)

	info = Parse("Senin Andi 08.00 - 10.30 Algoritma CS1010 Dr. Rina Pertemuan 1")
	assert.Equal(t, "CS101", info.ClassCode)
	assert.Equal(t, "Algoritma", info.CourseTitle)
	assert.Equal(t, "Dr. Rina", info.Instructor)
}

func TestParse_NoTimeRange(t *testing.T) {
	info := Parse("Pemrograman Web WEB2 Pak Joko Sesi 4")

	assert.Equal(t, DefaultTimeRange, info.TimeRange)
	assert.Equal(t, DefaultFacilitator, info.Facilitator)
	assert.Equal(t, "", info.Day)
	assert.Equal(t, "4", info.Sessions)
	assert.Equal(t, "WEB2", info.ClassCode)
	assert.Equal(t, "Pemrograman Web", info.CourseTitle)
	assert.Equal(t, "Pak Joko", info.Instructor)
}

func TestParse_DegradesToDefaults(t *testing.T) {
	for _, text := range []string{"", "random chatter without structure", "08.00 - 10.00"} {
		info := Parse(text)
		assert.Equal(t, DefaultSessions, info.Sessions, text)
		assert.Equal(t, DefaultClassCode, info.ClassCode, text)
		assert.Equal(t, DefaultCourseTitle, info.CourseTitle, text)
		assert.Equal(t, DefaultInstructor, info.Instructor, text)
		assert.Equal(t, []string{DefaultClassType}, info.ClassTypes, text)
		assert.Equal(t, DefaultFacilitator, info.Facilitator, text)
	}
}

func TestParse_InstructorStopsAtPertemuan(t *testing.T) {
	info := Parse("Kalkulus MTK1 Pertemuan 2 dan 3")

	assert.Equal(t, "MTK1", info.ClassCode)
	assert.Equal(t, "Kalkulus", info.CourseTitle)
	assert.Equal(t, DefaultInstructor, info.Instructor)
	assert.Equal(t, "2 dan 3", info.Sessions)
	assert.Equal(t, NewSessionSet(2, 3), info.SessionSet())
}

func TestParseSessions(t *testing.T) {
	want := NewSessionSet(1, 2)
	assert.Equal(t, want, ParseSessions("1 & 2"))
	assert.Equal(t, want, ParseSessions("1,2"))
	assert.Equal(t, want, ParseSessions("1 dan 2"))
	assert.Equal(t, want, ParseSessions("1 and 2"))
	assert.Equal(t, NewSessionSet(1, 3, 4), ParseSessions("1,3-4"))
	assert.Equal(t, NewSessionSet(5), ParseSessions("5, extra"))
}

func TestParseSessions_NonNumeric(t *testing.T) {
	got := ParseSessions("abc")
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
	assert.Empty(t, ParseSessions(""))
}

func TestExtractSessionNumbers(t *testing.T) {
	assert.Equal(t, NewSessionSet(1, 2), ExtractSessionNumbers("Pertemuan 1, 2"))
	assert.Equal(t, NewSessionSet(12), ExtractSessionNumbers("Sesi 12"))
	assert.Empty(t, ExtractSessionNumbers("Pertemuan"))
}

func TestSessionSet_Ops(t *testing.T) {
	s := NewSessionSet(3, 1, 2)
	assert.Equal(t, []int{1, 2, 3}, s.Sorted())
	assert.Equal(t, "1, 2, 3", s.String())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(4))
	assert.True(t, s.Intersects(NewSessionSet(3, 9)))
	assert.False(t, s.Intersects(NewSessionSet(9)))
	assert.False(t, s.Intersects(NewSessionSet()))
}

func TestRow_InfoOverlaysStructuredColumns(t *testing.T) {
	r := Row{
		Text:       "Basis Data IF23 Dr. Rina Pertemuan 1",
		Sessions:   "4 & 5",
		Instructor: "Prof. Sari",
	}
	info := r.Info()

	assert.Equal(t, "IF23", info.ClassCode)
	assert.Equal(t, "Basis Data", info.CourseTitle)
	assert.Equal(t, "Prof. Sari", info.Instructor)
	assert.Equal(t, "4 & 5", info.Sessions)
}
