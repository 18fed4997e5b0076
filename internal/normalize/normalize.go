// Package normalize cleans raw participant-list lines into display names.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	reEnumerator  = regexp.MustCompile(`^[\d\-_.)]+\s*`)
	reCodedSuffix = regexp.MustCompile(`[\-_]\s*[A-Z]{2,3}$`)
	reBareSuffix  = regexp.MustCompile(`\s+[A-Z]{2,3}$`)
	reMultiSpace  = regexp.MustCompile(`\s+`)
)

// denylist holds role markers that never belong to a student.
var denylist = []string{
	"co-host",
	"host",
	"admin",
	"fasil",
	"facilitator",
}

// Name cleans one raw participant line. The second return value is false
// when the line names a host, facilitator or admin and must be discarded.
// An empty cleaned name is still reported as ok; callers filter it.
func Name(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, marker := range denylist {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}

	s := strings.TrimSpace(raw)
	s = reEnumerator.ReplaceAllString(s, "")

	// Device or group tags appended by the meeting client, e.g. "Budi - HP".
	if reCodedSuffix.MatchString(s) {
		s = reCodedSuffix.ReplaceAllString(s, "")
	} else if loc := reBareSuffix.FindStringIndex(s); loc != nil && hasLower(s[:loc[0]]) {
		s = s[:loc[0]]
	}

	s = strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))
	if s == "" {
		return "", true
	}
	return cases.Title(language.Und).String(s), true
}

// Lines splits newline-delimited participant text and returns the cleaned
// names in input order. Discarded and empty lines are dropped; duplicates
// are kept.
func Lines(text string) []string {
	return Names(strings.Split(text, "\n"))
}

// Names normalizes every raw line, dropping discarded and empty results.
func Names(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		n, ok := Name(strings.TrimRight(line, "\r"))
		if !ok || n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Key folds a name into its comparison form: compatibility forms folded,
// diacritics removed, lower-cased and whitespace collapsed.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = stripDiacritics(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}
