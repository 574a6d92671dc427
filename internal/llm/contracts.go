package llm

import (
	"context"
	"fmt"

	"github.com/talentsift/screener/internal/screening"
)

// Analyzer is the reasoning-service boundary: one composite prompt in, one
// structured analysis out. Implementations make a single attempt; retry
// policy belongs to the caller.
type Analyzer interface {
	// Analyze returns the decoded result together with the raw provider
	// payload (kept for persistence/debugging even on failure).
	Analyze(ctx context.Context, prompt string) (screening.AnalysisResult, []byte, error)
}

// UpstreamError is fatal to a pipeline run: the external call failed or its
// content could not be parsed as the expected structure at all.
type UpstreamError struct {
	Provider string // "groq", "gemini"
	Stage    string // "transport", "decode", "validate"
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
