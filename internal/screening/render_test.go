package screening

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		RoleType: RoleMidSenior,
		Summary:  "Two of three candidates match the core stack.",
		Candidates: []RankedCandidate{
			{Rank: 1, Candidate: Candidate{
				ID: "R-002", Name: "Priya Sharma", Score: 88, IsSuitable: true,
				Strengths: []string{"6 years Go (high-weight: skills)"},
				Gaps:      []string{"No Kubernetes exposure (high-weight: skills)"},
				Evidence:  []string{"built order service in Go", "led team of 4", "on-call rotation", "extra excerpt"},
			}},
			{Rank: 2, Candidate: Candidate{
				ID: "R-001", Name: "Alex Chen", Score: 55, IsSuitable: false,
				Gaps: []string{"Only 1 year of experience (high-weight: experience)"},
			}},
			{Rank: 3, Candidate: Candidate{
				ID: "R-003", Name: "", Score: 72, IsSuitable: true,
			}},
		},
	}
}

func TestRenderText_AllSections(t *testing.T) {
	out := RenderText(sampleReport(), FilterAll)

	assert.Contains(t, out, "RESUME SCREENING ANALYSIS REPORT")
	assert.Contains(t, out, "ROLE TYPE : MID / SENIOR")
	assert.Contains(t, out, "OVERALL SUMMARY")
	assert.Contains(t, out, "Two of three candidates match the core stack.")
	assert.Contains(t, out, "Rank #1")
	assert.Contains(t, out, "Rank #2")
	assert.Contains(t, out, "Rank #3")
	assert.Contains(t, out, "Priya Sharma")
	assert.Contains(t, out, "Match Score : 88%")
	assert.Contains(t, out, "SUITABLE FOR ROLE")
	assert.Contains(t, out, "NOT SUITABLE FOR ROLE")
	assert.Contains(t, out, "END OF REPORT")
}

func TestRenderText_FilterKeepsGlobalRanks(t *testing.T) {
	out := RenderText(sampleReport(), FilterSuitable)

	// Ranks 1 and 3 survive; rank 2 (not suitable) is filtered out but the
	// surviving candidates keep the ranks they earned in the full pool.
	assert.Contains(t, out, "Rank #1")
	assert.NotContains(t, out, "Rank #2")
	assert.Contains(t, out, "Rank #3")
	assert.NotContains(t, out, "Alex Chen")
	assert.Contains(t, out, "[ SUITABLE CANDIDATES ONLY ]")

	// The pool summary only belongs to the unfiltered report.
	assert.NotContains(t, out, "OVERALL SUMMARY")
}

func TestRenderText_FilterNotSuitable(t *testing.T) {
	out := RenderText(sampleReport(), FilterNotSuitable)

	assert.Contains(t, out, "Rank #2")
	assert.NotContains(t, out, "Rank #1")
	assert.NotContains(t, out, "Priya Sharma")
	assert.Contains(t, out, "[ NOT SUITABLE CANDIDATES ONLY ]")
}

func TestRenderText_IDsNeverShown(t *testing.T) {
	out := RenderText(sampleReport(), FilterAll)

	assert.NotContains(t, out, "R-001")
	assert.NotContains(t, out, "R-002")
	assert.NotContains(t, out, "R-003")
}

func TestRenderText_EvidenceCapped(t *testing.T) {
	out := RenderText(sampleReport(), FilterAll)

	assert.Contains(t, out, "built order service in Go")
	assert.NotContains(t, out, "extra excerpt")
}

func TestRenderText_MissingName(t *testing.T) {
	out := RenderText(sampleReport(), FilterAll)
	assert.Contains(t, out, "Name not found in resume")
}

func TestRenderText_FresherWeightage(t *testing.T) {
	r := sampleReport()
	r.RoleType = RoleFresher
	out := RenderText(r, FilterAll)

	assert.Contains(t, out, "ROLE TYPE : FRESHER")
	assert.Contains(t, out, "Education")
	assert.Contains(t, out, "80%")
}

func TestRenderText_Empty(t *testing.T) {
	out := RenderText(Report{}, FilterAll)
	assert.Equal(t, "No analysis results available.", out)
}

func TestRenderText_RuleWidth(t *testing.T) {
	out := RenderText(sampleReport(), FilterAll)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "=") || strings.HasPrefix(line, "-") {
			require.Len(t, line, 80)
		}
	}
}
