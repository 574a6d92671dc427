package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/screener/internal/llm"
	"github.com/talentsift/screener/internal/screening"
)

const providerName = "groq"

// Analyze implements llm.Analyzer over Groq's chat/completions endpoint.
// Single attempt; any transport or shape failure surfaces as *llm.UpstreamError.
func (c *Client) Analyze(ctx context.Context, prompt string) (screening.AnalysisResult, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.analyze.start",
		"req_id", rid,
		"provider", providerName,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.analyze.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, nil, &llm.UpstreamError{Provider: providerName, Stage: "transport", Err: err}
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.analyze.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, raw, &llm.UpstreamError{Provider: providerName, Stage: "decode", Err: err}
	}
	if len(cc.Choices) == 0 {
		err := fmt.Errorf("no choices in response")
		c.log.Error("llm.analyze.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, raw, &llm.UpstreamError{Provider: providerName, Stage: "decode", Err: err}
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	result, err := llm.DecodeAnalysis(content, c.log)
	if err != nil {
		c.log.Error("llm.analyze.validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, content, &llm.UpstreamError{Provider: providerName, Stage: "validate", Err: err}
	}

	c.log.Info("llm.analyze.ok",
		"req_id", rid,
		"role_type", result.RoleType,
		"candidates", len(result.Candidates),
		"ranking", len(result.Ranking),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("groq response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("groq status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
