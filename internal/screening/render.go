package screening

import (
	"fmt"
	"strings"
)

const ruleHeavy = "================================================================================"
const ruleLight = "--------------------------------------------------------------------------------"

// maxEvidence caps the excerpts shown per candidate in the text report.
const maxEvidence = 3

// RenderText converts a reconciled report into a plain-text document for
// human consumption. Rank numbers are global: filtering happens after
// ranking, so a suitable-only report keeps the ranks candidates earned in
// the full pool. Internal identifiers never appear in the output.
func RenderText(r Report, filter Filter) string {
	if len(r.Candidates) == 0 {
		return "No analysis results available."
	}

	var lines []string
	push := func(format string, args ...any) {
		if len(args) == 0 {
			lines = append(lines, format)
			return
		}
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	push(ruleHeavy)
	push("RESUME SCREENING ANALYSIS REPORT")
	switch filter {
	case FilterSuitable:
		push("[ SUITABLE CANDIDATES ONLY ]")
	case FilterNotSuitable:
		push("[ NOT SUITABLE CANDIDATES ONLY ]")
	}
	push(ruleHeavy)
	push("")

	switch r.RoleType {
	case RoleFresher:
		push("ROLE TYPE : FRESHER")
		push("Scoring Weightage:")
		push("  Education               -> 80%  (high priority)")
		push("  Projects & Internships  -> 20%")
		push("")
	case RoleMidSenior:
		push("ROLE TYPE : MID / SENIOR")
		push("Scoring Weightage:")
		push("  Skills                  -> 50%  (high priority)")
		push("  Work Experience         -> 45%  (high priority)")
		push("  Location                ->  5%")
		push("")
	}

	if filter == FilterAll && r.Summary != "" {
		push("OVERALL SUMMARY")
		push(ruleLight)
		push("%s", r.Summary)
		push("")
	}

	push("DETAILED CANDIDATE ANALYSIS")
	push(ruleHeavy)
	push("")

	for _, c := range r.Select(filter) {
		name := c.Name
		if name == "" {
			name = "Name not found in resume"
		}
		status := "NOT SUITABLE FOR ROLE"
		if c.IsSuitable {
			status = "SUITABLE FOR ROLE"
		}

		push("Rank #%d", c.Rank)
		push("  Candidate   : %s", name)
		push("  Match Score : %d%%", c.Score)
		push("  Status      : %s", status)
		push("")

		if len(c.Strengths) > 0 {
			push("  Key Strengths:")
			for _, s := range c.Strengths {
				push("    * %s", s)
			}
			push("")
		}
		if len(c.Gaps) > 0 {
			push("  Areas of Concern:")
			for _, g := range c.Gaps {
				push("    * %s", g)
			}
			push("")
		}
		if len(c.Evidence) > 0 {
			push("  Supporting Evidence:")
			ev := c.Evidence
			if len(ev) > maxEvidence {
				ev = ev[:maxEvidence]
			}
			for _, e := range ev {
				push("    * %q", e)
			}
			push("")
		}

		push(ruleLight)
		push("")
	}

	push(ruleHeavy)
	push("END OF REPORT")
	push(ruleHeavy)

	return strings.Join(lines, "\n")
}
