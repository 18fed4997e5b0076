// Package match maps noisy participant names onto roster names.
package match

import (
	"sort"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/normalize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	// SimilarityCutoff is the lowest ratio a similarity candidate may score.
	SimilarityCutoff = 0.6
	// MaxSimilarityCandidates bounds the similarity pass.
	MaxSimilarityCandidates = 3
)

type Kind string

const (
	KindNone        Kind = "none"
	KindExact       Kind = "exact"
	KindContainment Kind = "containment"
	KindSimilarity  Kind = "similarity"
)

// Result is the outcome of matching one name. Name is always a roster name
// verbatim. Conflicts is non-empty only for ambiguous matches; Name is still
// committed and the conflicts are advisory.
type Result struct {
	Input     string   `json:"input"`
	Name      string   `json:"name,omitempty"`
	Matched   bool     `json:"matched"`
	Kind      Kind     `json:"kind"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// Ambiguous reports whether the match needs human review.
func (r Result) Ambiguous() bool {
	return len(r.Conflicts) > 1
}

type entry struct {
	name string
	key  string
}

// Roster is a match index over roster display names. It is read-only after
// construction and safe for concurrent use.
type Roster struct {
	entries []entry
	keys    []string
	byKey   map[string]string
}

// NewRoster indexes names in roster order. Blank names are skipped.
func NewRoster(names []string) *Roster {
	r := &Roster{
		entries: make([]entry, 0, len(names)),
		keys:    make([]string, 0, len(names)),
		byKey:   make(map[string]string, len(names)),
	}
	for _, n := range names {
		k := normalize.Key(n)
		if k == "" {
			continue
		}
		r.entries = append(r.entries, entry{name: n, key: k})
		r.keys = append(r.keys, k)
		if _, ok := r.byKey[k]; !ok {
			r.byKey[k] = n
		}
	}
	return r
}

// Len returns the number of indexed names.
func (r *Roster) Len() int { return len(r.entries) }

// Match runs the exact and containment passes and, only when they find
// nothing, the similarity pass.
func Match(name string, roster []string) Result {
	return NewRoster(roster).Match(name)
}

func (r *Roster) Match(name string) Result {
	res := Result{Input: name, Kind: KindNone}
	key := normalize.Key(name)
	if key == "" {
		return res
	}

	// An exact copy of a roster name is never ambiguous, even when it is a
	// substring of an earlier entry.
	if exact, ok := r.byKey[key]; ok {
		res.Name = exact
		res.Matched = true
		res.Kind = KindExact
		return res
	}

	if best, ok := r.containment(key); ok {
		res.Name = best
		res.Matched = true
		res.Kind = KindContainment
		res.Conflicts = r.containmentConflicts(key, best)
		return res
	}

	cands := r.similar(key)
	if len(cands) == 0 {
		return res
	}
	res.Name = cands[0]
	res.Matched = true
	res.Kind = KindSimilarity
	if len(cands) > 1 {
		res.Conflicts = cands
	}
	return res
}

// containment returns the first roster name, in roster order, whose key
// contains key or is contained by it.
func (r *Roster) containment(key string) (string, bool) {
	for _, e := range r.entries {
		if strings.Contains(e.key, key) || strings.Contains(key, e.key) {
			return e.name, true
		}
	}
	return "", false
}

// containmentConflicts lists the committed name followed by every other
// roster name whose key contains key. Nil when there is no other name.
func (r *Roster) containmentConflicts(key, committed string) []string {
	seen := map[string]struct{}{committed: {}}
	out := []string{committed}
	for _, e := range r.entries {
		if !strings.Contains(e.key, key) {
			continue
		}
		if _, dup := seen[e.name]; dup {
			continue
		}
		seen[e.name] = struct{}{}
		out = append(out, e.name)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

type scored struct {
	name  string
	score float64
}

// similar returns up to MaxSimilarityCandidates roster names whose
// Ratcliff/Obershelp ratio against key reaches SimilarityCutoff, best first.
// Ties are broken by name, descending.
func (r *Roster) similar(key string) []string {
	word := strings.Split(key, "")
	var hits []scored
	seen := make(map[string]struct{})
	for _, e := range r.entries {
		if _, dup := seen[e.name]; dup {
			continue
		}
		m := difflib.NewMatcher(strings.Split(e.key, ""), word)
		if m.RealQuickRatio() < SimilarityCutoff || m.QuickRatio() < SimilarityCutoff {
			continue
		}
		if score := m.Ratio(); score >= SimilarityCutoff {
			seen[e.name] = struct{}{}
			hits = append(hits, scored{name: e.name, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name > hits[j].name
	})
	if len(hits) > MaxSimilarityCandidates {
		hits = hits[:MaxSimilarityCandidates]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

// Suggest returns the closest roster name for a name Match could not place,
// for display next to unmatched lines. It never feeds attendance sets.
func (r *Roster) Suggest(name string) (string, bool) {
	pat := normalize.Key(name)
	if pat == "" || len(r.keys) == 0 {
		return "", false
	}

	// Subsequence hits first: abbreviated names like "bdi sntoso".
	ranks := fuzzy.RankFindNormalizedFold(pat, r.keys)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		if ranks[0].Distance <= suggestThreshold(len(ranks[0].Target)) {
			return r.byKey[ranks[0].Target], true
		}
	}

	// Typos break subsequence matching; fall back to plain edit distance.
	thr := suggestThreshold(len(pat))
	best, bestDist := "", thr+1
	for _, k := range filterCandidates(r.keys, pat, thr) {
		if d := fuzzy.LevenshteinDistance(pat, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return "", false
	}
	return r.byKey[best], true
}

// suggestThreshold is the acceptable edit distance for a hint, about half
// the length with a floor of 2.
func suggestThreshold(n int) int {
	th := n / 2
	if th < 2 {
		return 2
	}
	return th
}

// filterCandidates pre-filters keys by length window.
func filterCandidates(keys []string, pattern string, threshold int) []string {
	patLen := len(pattern)
	out := make([]string, 0, len(keys)/4)
	for _, k := range keys {
		if abs(len(k)-patLen) > threshold {
			continue
		}
		out = append(out, k)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
