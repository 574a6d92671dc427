package screening

import (
	"fmt"
	"strings"
)

// RoleType is the evaluation regime the service classified the query into.
type RoleType string

const (
	RoleFresher   RoleType = "fresher"
	RoleMidSenior RoleType = "mid_senior"
	RoleUnknown   RoleType = "unknown"
)

// NormalizeRoleType maps arbitrary service output onto the known regimes.
func NormalizeRoleType(s string) RoleType {
	switch RoleType(strings.ToLower(strings.TrimSpace(s))) {
	case RoleFresher:
		return RoleFresher
	case RoleMidSenior:
		return RoleMidSenior
	default:
		return RoleUnknown
	}
}

// Candidate is one scored resume as produced by the reasoning service. Every
// field except ID is opaque payload; the reconciler never reinterprets it.
type Candidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Score      int      `json:"score_percentage"`
	IsSuitable bool     `json:"is_suitable"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	Evidence   []string `json:"evidence"`
}

// AnalysisResult is the structured object the reasoning service is expected
// to return. Ranking may be incomplete, contain duplicates, or reference
// unknown identifiers; reconciliation tolerates all three. Unknown extra
// fields in the payload are ignored by decoding.
type AnalysisResult struct {
	RoleType   string      `json:"role_type"`
	Candidates []Candidate `json:"candidates"`
	Ranking    []string    `json:"ranking"`
	Summary    string      `json:"jd_fit_summary"`
}

// RankedCandidate annotates a candidate with its final 1-based rank.
type RankedCandidate struct {
	Candidate
	Rank int
}

// Report is the reconciler's output: candidates in final order with
// contiguous 1-based ranks, plus any reconciliation anomalies observed.
// It is recomputed on every reconciliation; the input AnalysisResult is
// never mutated.
type Report struct {
	RoleType   RoleType
	Summary    string
	Candidates []RankedCandidate
	Anomalies  []string
}

// Filter selects candidates by suitability. It is applied after ranking, so
// displayed rank numbers reflect global rank.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterSuitable    Filter = "suitable"
	FilterNotSuitable Filter = "not_suitable"
)

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterSuitable, FilterNotSuitable:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, suitable or not_suitable)", s)
	}
}

// Match reports whether the candidate passes the filter.
func (f Filter) Match(c Candidate) bool {
	switch f {
	case FilterSuitable:
		return c.IsSuitable
	case FilterNotSuitable:
		return !c.IsSuitable
	default:
		return true
	}
}

// Select returns the ranked candidates passing the filter, ranks preserved.
func (r Report) Select(f Filter) []RankedCandidate {
	out := make([]RankedCandidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if f.Match(c.Candidate) {
			out = append(out, c)
		}
	}
	return out
}
