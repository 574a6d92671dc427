package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/talentsift/screener/internal/screening"
)

var (
	reFenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
)

// StripCodeFences removes a markdown code fence if the model wrapped its JSON
// output in one.
func StripCodeFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "```") {
		s = reFenceOpen.ReplaceAllString(s, "")
		s = strings.TrimSpace(reFenceClose.ReplaceAllString(s, ""))
	}
	return []byte(s)
}

// DecodeAnalysis turns a provider's raw text payload into an AnalysisResult.
// It strips code fences, normalizes near-miss field types, checks the minimal
// acceptance schema, and unmarshals. Any failure means the response cannot be
// reconciled and is reported via *UpstreamError by the calling client.
func DecodeAnalysis(raw []byte, logger *slog.Logger) (screening.AnalysisResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	content := StripCodeFences(raw)

	cleaned, coerced, err := normalizeAnalysisJSON(content)
	if err != nil {
		return screening.AnalysisResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(coerced) > 0 {
		logger.Warn("llm.decode.normalized", "coerced", coerced)
	}

	if err := ValidateJSONAgainstSchema(acceptanceSchema(), cleaned); err != nil {
		return screening.AnalysisResult{}, fmt.Errorf("response shape: %w", err)
	}

	var out screening.AnalysisResult
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return screening.AnalysisResult{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return out, nil
}

// normalizeAnalysisJSON fixes the near-miss shapes models commonly produce
// without changing meaning: fractional or string scores become integers,
// non-object candidate entries are dropped, string ids are trimmed. Unknown
// keys are left alone; decoding ignores them.
func normalizeAnalysisJSON(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, err
	}

	var coerced []string

	list, ok := m["candidates"].([]any)
	if ok {
		cleaned := make([]any, 0, len(list))
		for i, entry := range list {
			c, ok := entry.(map[string]any)
			if !ok {
				coerced = append(coerced, fmt.Sprintf("candidates[%d](dropped)", i))
				continue
			}
			if id, ok := c["id"].(string); ok {
				c["id"] = strings.TrimSpace(id)
			}
			switch v := c["score_percentage"].(type) {
			case float64:
				if v != math.Trunc(v) {
					c["score_percentage"] = int(math.Round(v))
					coerced = append(coerced, fmt.Sprintf("candidates[%d].score_percentage(rounded)", i))
				}
			case string:
				var f float64
				if _, err := fmt.Sscanf(strings.TrimSuffix(strings.TrimSpace(v), "%"), "%g", &f); err == nil {
					c["score_percentage"] = int(math.Round(f))
					coerced = append(coerced, fmt.Sprintf("candidates[%d].score_percentage(parsed)", i))
				} else {
					delete(c, "score_percentage")
					coerced = append(coerced, fmt.Sprintf("candidates[%d].score_percentage(dropped)", i))
				}
			}
			cleaned = append(cleaned, c)
		}
		m["candidates"] = cleaned
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, coerced, err
	}
	return out, coerced, nil
}
