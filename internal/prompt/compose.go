package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talentsift/screener/internal/corpus"
)

// Delimiter tokens wrapping each resume block. The start delimiter embeds the
// record id as JSON metadata so the service can correlate output back to
// input without being told to display the id.
const (
	delimEnd = "===CANDIDATE_END==="

	// delimToken is the shared prefix of both delimiters. Any occurrence
	// inside extracted resume text is neutralized before rendering so a
	// resume cannot forge a block boundary.
	delimToken        = "===CANDIDATE_"
	delimTokenEscaped = "=== CANDIDATE_"
)

// Region headers separating the request's top-level sections.
const (
	regionSystem  = "===SYSTEM_INSTRUCTIONS==="
	regionSchema  = "===OUTPUT_SCHEMA==="
	regionContext = "===RESUME_CONTEXT==="
	regionQuery   = "===HR_QUERY==="
	regionTask    = "===TASK==="
)

// regionMarkers lists every structural header the composer emits, including
// the weightage-policy heading embedded in its instruction block. Occurrences
// inside resume text are neutralized like the candidate token, so a document
// cannot forge a region boundary either.
var regionMarkers = []string{
	regionSystem,
	"===ROLE CLASSIFICATION & SCORING WEIGHTAGE===",
	regionSchema,
	regionContext,
	regionQuery,
	regionTask,
}

const systemInstructions = `You are an AI Resume Screening Assistant for HR. Follow these rules:
- Be objective and grounded: do not assume or invent skills, experiences, or qualifications not explicitly present in the provided resume texts.
- When you make any claim about a candidate in the strengths/gaps/evidence fields, include a short quoted excerpt that supports the claim.
- The IDs (R-001, R-002, etc.) are ONLY for internal system tracking. DO NOT mention these IDs in the "jd_fit_summary", "name", "score_percentage", "is_suitable", "strengths", "gaps", "evidence" fields.
- Output MUST be valid JSON (no extra commentary). Use the schema declared below.
- Keep answers concise and focused on the job description / query provided.`

const weightagePolicy = `===ROLE CLASSIFICATION & SCORING WEIGHTAGE===

Before scoring, classify the role from the HR Query / Job Description as either "fresher" or "mid_senior".

CLASSIFICATION RULES:
- "fresher": Role targets fresh graduates, entry-level candidates, 0-2 years of experience, internship roles, trainee or junior positions, or roles where no prior work experience is required.
- "mid_senior": Role requires 2+ years of work experience, specific domain skills, senior/lead/manager titles, or expects a proven professional track record.
- If the JD is ambiguous or does not specify, default to "mid_senior".

SCORING WEIGHTAGE (apply this when computing score_percentage for each candidate):

  For FRESHER roles:
    - Education (degree, institution, GPA, relevant coursework):  80%
    - Projects & Internships (personal/academic projects, any internships): 20%

  For MID-SENIOR roles:
    - Skills (technical + domain skills matching the JD):          50%
    - Work Experience (years, relevance, seniority of past roles): 45%
    - Location (proximity or match to job location if specified):   5%

IMPORTANT:
- Score each candidate strictly using these weights. A candidate weak in a high-weight category cannot compensate with a strong low-weight category.
- In the "strengths" and "gaps" fields, explicitly mention whether the strength/gap is in a high-weight or low-weight category so the HR team understands its impact on the score.
- The "role_type" field in the output must reflect your classification: either "fresher" or "mid_senior".`

const summaryInstructions = `CRITICAL INSTRUCTION FOR "jd_fit_summary":
- Keep it EXTREMELY brief: 1-2 sentences maximum.
- Focus ONLY on the overall candidate pool quality and key gaps/strengths common across ALL candidates.
- DO NOT mention individual candidate names or IDs (R-001, R-002, etc.).`

const taskInstructions = `Step 1: Read the HR Query and classify the role as 'fresher' or 'mid_senior' using the classification rules above. ` +
	`Step 2: Apply the corresponding scoring weightage to evaluate each candidate. ` +
	`Step 3: Return a single JSON object matching the schema exactly. ` +
	`For each strength/gap include a one-line evidence snippet and note whether it is in a high-weight or low-weight category.`

// Compose renders the composite request for the reasoning service. The output
// is deterministic: identical (corpus, query) inputs yield byte-identical
// strings, with no timestamps or randomness embedded.
func Compose(c *corpus.Corpus, query string) string {
	sections := []string{
		regionSystem,
		systemInstructions,
		weightagePolicy,
		regionSchema,
		schemaSection(),
		regionContext,
		resumeContext(c),
		regionQuery,
		querySection(query),
		regionTask,
		taskInstructions,
	}
	return strings.Join(sections, "\n\n")
}

func schemaSection() string {
	return "Expected JSON output schema:\n" + mustJSON(BuildAnalysisJSONSchema()) + "\n\n" + summaryInstructions
}

// resumeContext wraps each record in its delimiter pair. Failed slots render
// as empty blocks so the identifier sequence stays contiguous for the service.
func resumeContext(c *corpus.Corpus) string {
	blocks := make([]string, 0, c.Len())
	for _, rec := range c.Records() {
		start := fmt.Sprintf("%sSTART {\"id\": %q} ===", delimToken, rec.ID)
		blocks = append(blocks, start+"\n"+escapeDelimiters(rec.Text)+"\n"+delimEnd)
	}
	return strings.Join(blocks, "\n\n")
}

func querySection(query string) string {
	return "HR Query / Job Description:\n" + strings.TrimSpace(query) + "\n"
}

// escapeDelimiters neutralizes delimiter-like substrings in resume text, both
// the candidate token and every region header. Each replacement inserts a
// space after the leading "===", so it cannot re-form a marker; one pass per
// marker is sufficient.
func escapeDelimiters(text string) string {
	text = strings.ReplaceAll(text, delimToken, delimTokenEscaped)
	for _, marker := range regionMarkers {
		text = strings.ReplaceAll(text, marker, "=== "+marker[3:])
	}
	return text
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
