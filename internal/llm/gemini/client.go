package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/talentsift/screener/internal/llm"
	"github.com/talentsift/screener/internal/screening"
)

const providerName = "gemini"

// Config for the Gemini client.
type Config struct {
	APIKey      string  // if empty, falls back to env GEMINI_API_KEY
	Model       string  // e.g. "gemini-pro"
	Temperature float32 // 0..2
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	// Structured-output mode: the analysis must come back as a single JSON object.
	model.ResponseMIMEType = "application/json"

	return &Client{client: client, model: model, log: logger}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Analyze implements llm.Analyzer over the Gemini API. Single attempt; any
// transport or shape failure surfaces as *llm.UpstreamError.
func (c *Client) Analyze(ctx context.Context, prompt string) (screening.AnalysisResult, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.analyze.start",
		"req_id", rid,
		"provider", providerName,
		"prompt_len", len(prompt),
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Error("llm.analyze.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, nil, &llm.UpstreamError{Provider: providerName, Stage: "transport", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		err := fmt.Errorf("empty response")
		c.log.Error("llm.analyze.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return screening.AnalysisResult{}, nil, &llm.UpstreamError{Provider: providerName, Stage: "decode", Err: err}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	content := []byte(strings.TrimSpace(sb.String()))

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
