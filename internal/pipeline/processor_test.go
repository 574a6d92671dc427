package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/screener/constants"
	"github.com/talentsift/screener/internal/corpus"
	"github.com/talentsift/screener/internal/llm"
	"github.com/talentsift/screener/internal/screening"
)

type echoExtractor struct{}

func (echoExtractor) Extract(_ context.Context, blob []byte) (string, error) {
	return string(blob), nil
}

// stubAnalyzer records the prompt it saw and replies with a canned result.
type stubAnalyzer struct {
	prompt string
	result screening.AnalysisResult
	raw    []byte
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, prompt string) (screening.AnalysisResult, []byte, error) {
	s.prompt = prompt
	return s.result, s.raw, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor(a llm.Analyzer, maxResumes int) *Processor {
	coord := corpus.NewCoordinator(echoExtractor{}, testLogger(), corpus.WithWorkers(2))
	return NewProcessor(testLogger(), coord, a, maxResumes)
}

func TestProcessor_Run(t *testing.T) {
	analyzer := &stubAnalyzer{
		result: screening.AnalysisResult{
			RoleType: "mid_senior",
			Candidates: []screening.Candidate{
				{ID: "R-001", Name: "Alpha", Score: 40, IsSuitable: false},
				{ID: "R-002", Name: "Beta", Score: 80, IsSuitable: true},
			},
			Ranking: []string{"R-002", "R-001"},
			Summary: "One good fit.",
		},
		raw: []byte(`{"candidates":[]}`),
	}
	p := newTestProcessor(analyzer, 0)

	blobs := [][]byte{[]byte("alpha resume"), []byte("beta resume")}
	res, err := p.Run(context.Background(), blobs, "Go engineer")
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Go engineer", res.Query)
	assert.Equal(t, []string{"R-001", "R-002"}, res.Corpus.IDs())
	assert.Empty(t, res.Failures)
	assert.Equal(t, analyzer.raw, res.Raw)

	// The analyzer received the composed request, resumes included.
	assert.Contains(t, analyzer.prompt, "alpha resume")
	assert.Contains(t, analyzer.prompt, "Go engineer")
	assert.True(t, strings.Contains(analyzer.prompt, `"R-001"`))

	require.Len(t, res.Report.Candidates, 2)
	assert.Equal(t, "Beta", res.Report.Candidates[0].Name)
	assert.Equal(t, 1, res.Report.Candidates[0].Rank)
	assert.Equal(t, screening.RoleMidSenior, res.Report.RoleType)
}

func TestProcessor_Run_AnalyzerFailure(t *testing.T) {
	analyzer := &stubAnalyzer{
		raw: []byte("I refuse to answer in JSON"),
		err: &llm.UpstreamError{Provider: "groq", Stage: "decode", Err: context.DeadlineExceeded},
	}
	p := newTestProcessor(analyzer, 0)

	res, err := p.Run(context.Background(), [][]byte{[]byte("resume")}, "query")
	require.Error(t, err)

	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "groq", upstream.Provider)

	// Raw payload survives the failure for persistence.
	assert.Equal(t, analyzer.raw, res.Raw)
	assert.Empty(t, res.Report.Candidates)
}

func TestProcessor_Run_OverAdvisoryLimit(t *testing.T) {
	analyzer := &stubAnalyzer{
		result: screening.AnalysisResult{
			Candidates: []screening.Candidate{
				{ID: "R-001"}, {ID: "R-002"}, {ID: "R-003"}, {ID: "R-004"},
			},
		},
	}
	p := newTestProcessor(analyzer, 3)

	blobs := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	res, err := p.Run(context.Background(), blobs, "query")
	require.NoError(t, err)

	// Advisory only: all four slots processed.
	assert.Equal(t, 4, res.Corpus.Len())
	assert.Len(t, res.Report.Candidates, 4)
}

type statusCall struct {
	runID  string
	status constants.RunStatus
	batch  int
	failed int
}

// stubRecorder captures every status transition the processor reports.
type stubRecorder struct {
	calls []statusCall
	err   error
}

func (s *stubRecorder) RecordStatus(_ context.Context, runID, _ string, status constants.RunStatus, batch, failed int) error {
	s.calls = append(s.calls, statusCall{runID: runID, status: status, batch: batch, failed: failed})
	return s.err
}

func TestProcessor_Run_RecordsStatusTransitions(t *testing.T) {
	rec := &stubRecorder{}
	analyzer := &stubAnalyzer{
		result: screening.AnalysisResult{
			Candidates: []screening.Candidate{{ID: "R-001"}, {ID: "R-002"}},
		},
	}
	p := newTestProcessor(analyzer, 0)
	p.Runs = rec

	res, err := p.Run(context.Background(), [][]byte{[]byte("a"), []byte("b")}, "query")
	require.NoError(t, err)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, constants.RunStatusRunning, rec.calls[0].status)
	assert.Equal(t, constants.RunStatusExtracted, rec.calls[1].status)
	assert.Equal(t, constants.RunStatusAnalyzed, rec.calls[2].status)
	for _, call := range rec.calls {
		assert.Equal(t, res.RunID, call.runID)
		assert.Equal(t, 2, call.batch)
	}
}

func TestProcessor_Run_RecorderFailureNotFatal(t *testing.T) {
	rec := &stubRecorder{err: context.DeadlineExceeded}
	analyzer := &stubAnalyzer{
		result: screening.AnalysisResult{Candidates: []screening.Candidate{{ID: "R-001"}}},
	}
	p := newTestProcessor(analyzer, 0)
	p.Runs = rec

	_, err := p.Run(context.Background(), [][]byte{[]byte("a")}, "query")
	require.NoError(t, err)
	assert.Len(t, rec.calls, 3)
}

func TestProcessor_Run_AnalyzerFailureSkipsAnalyzedStatus(t *testing.T) {
	rec := &stubRecorder{}
	analyzer := &stubAnalyzer{
		err: &llm.UpstreamError{Provider: "groq", Stage: "transport", Err: context.DeadlineExceeded},
	}
	p := newTestProcessor(analyzer, 0)
	p.Runs = rec

	_, err := p.Run(context.Background(), [][]byte{[]byte("a")}, "query")
	require.Error(t, err)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, constants.RunStatusRunning, rec.calls[0].status)
	assert.Equal(t, constants.RunStatusExtracted, rec.calls[1].status)
}

func TestProcessor_Run_EmptyBatch(t *testing.T) {
	analyzer := &stubAnalyzer{result: screening.AnalysisResult{}}
	p := newTestProcessor(analyzer, 0)

	res, err := p.Run(context.Background(), nil, "query")
	require.NoError(t, err)
	assert.Zero(t, res.Corpus.Len())
	assert.Empty(t, res.Report.Candidates)
}
