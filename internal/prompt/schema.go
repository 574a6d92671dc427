package prompt

// BuildAnalysisJSONSchema returns the JSON-Schema (draft 2020-12 subset) that
// the reasoning service is instructed to honor, as a generic map. The prompt
// declares it verbatim; acceptance validation of the actual response is
// intentionally looser and lives in the llm package.
func BuildAnalysisJSONSchema() map[string]any {
	candidate := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":               idProp(),
			"name":             map[string]any{"type": "string"},
			"score_percentage": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"is_suitable":      map[string]any{"type": "boolean"},
			"strengths":        stringArrayProp(),
			"gaps":             stringArrayProp(),
			"evidence":         stringArrayProp(),
		},
		"required": []string{"id", "name", "score_percentage", "is_suitable", "strengths", "gaps", "evidence"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"role_type": map[string]any{
				"type": "string",
				"enum": []string{"fresher", "mid_senior"},
			},
			"candidates": map[string]any{
				"type":  "array",
				"items": candidate,
			},
			"ranking": map[string]any{
				"type":  "array",
				"items": idProp(),
			},
			"jd_fit_summary": map[string]any{"type": "string"},
		},
		"required": []string{"role_type", "candidates", "ranking", "jd_fit_summary"},
	}
}

func idProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^R-\d{3}$`}
}

func stringArrayProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}
