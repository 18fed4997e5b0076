package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	reSessionWordJoiner = regexp.MustCompile(`(?i)\b(?:and|dan)\b`)
	reDigits            = regexp.MustCompile(`\d+`)
)

// SessionSet is a set of meeting numbers. Values are expected in [1,16]
// but the parsers do not enforce the bound.
type SessionSet map[int]struct{}

// NewSessionSet builds a set from the given numbers.
func NewSessionSet(nums ...int) SessionSet {
	s := make(SessionSet, len(nums))
	for _, n := range nums {
		s[n] = struct{}{}
	}
	return s
}

// ParseSessions converts a descriptor such as "1 & 2", "1,3-4" or "1 dan 2"
// into a set. Tokens that are not pure digits are dropped, so an
// all-text descriptor yields an empty set.
func ParseSessions(descriptor string) SessionSet {
	s := strings.NewReplacer("&", ",", "-", ",").Replace(descriptor)
	s = reSessionWordJoiner.ReplaceAllString(s, ",")

	out := make(SessionSet)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if !isDigits(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out[n] = struct{}{}
	}
	return out
}

// ExtractSessionNumbers collects every digit run embedded in a cell, e.g.
// "Pertemuan 1, 2" -> {1, 2}. Used for feedback session columns whose
// values are free text.
func ExtractSessionNumbers(cell string) SessionSet {
	out := make(SessionSet)
	for _, m := range reDigits.FindAllString(cell, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out[n] = struct{}{}
	}
	return out
}

func (s SessionSet) Len() int { return len(s) }

func (s SessionSet) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// Intersects reports whether the two sets share at least one session.
func (s SessionSet) Intersects(other SessionSet) bool {
	small, big := s, other
	if len(small) > len(big) {
		small, big = big, small
	}
	for n := range small {
		if _, ok := big[n]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the members in ascending order.
func (s SessionSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (s SessionSet) String() string {
	nums := s.Sorted()
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
