package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talentsift/screener/constants"
	"github.com/talentsift/screener/internal/common"
	"github.com/talentsift/screener/internal/corpus"
	"github.com/talentsift/screener/internal/llm"
	"github.com/talentsift/screener/internal/prompt"
	"github.com/talentsift/screener/internal/screening"
)

// StatusRecorder persists run status transitions as the pipeline advances.
type StatusRecorder interface {
	RecordStatus(ctx context.Context, runID, query string, status constants.RunStatus, batchSize, failedSlots int) error
}

// Processor coordinates extraction, request composition, the external
// analysis call, and reconciliation for one screening run.
type Processor struct {
	Logger      *slog.Logger
	Coordinator *corpus.Coordinator
	Analyzer    llm.Analyzer

	// Runs, when set, receives RUNNING/EXTRACTED transitions during the run.
	// Recording failures are logged and never abort the pipeline.
	Runs StatusRecorder

	// MaxResumes is an advisory soft limit on batch size; exceeding it logs
	// a warning and never rejects input.
	MaxResumes int
}

func NewProcessor(logger *slog.Logger, coord *corpus.Coordinator, analyzer llm.Analyzer, maxResumes int) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Coordinator: coord, Analyzer: analyzer, MaxResumes: maxResumes}
}

// RunResult carries everything a caller may want to persist or render from
// one screening run.
type RunResult struct {
	RunID    string
	Query    string
	Corpus   *corpus.Corpus
	Failures []corpus.Failure
	Prompt   string
	Raw      []byte // raw provider payload, when one was received
	Report   screening.Report
}

// Run executes the full pipeline over one batch of resume blobs. Per-slot
// extraction failures are isolated and reported in RunResult.Failures; an
// upstream service failure is fatal to the run and returned as the error,
// with no caller-visible state mutated.
func (p *Processor) Run(ctx context.Context, blobs [][]byte, query string) (RunResult, error) {
	runID := uuid.New().String()
	ctx = common.WithRunID(ctx, runID)
	res := RunResult{RunID: runID, Query: query}
	p.recordStatus(ctx, runID, query, constants.RunStatusRunning, len(blobs), 0)

	if p.MaxResumes > 0 && len(blobs) > p.MaxResumes {
		p.Logger.Warn("pipeline.batch_over_limit",
			"run_id", runID,
			"batch", len(blobs),
			"advisory_max", p.MaxResumes,
			"hint", "large batches may exceed the model context window",
		)
	}

	res.Corpus, res.Failures = p.Coordinator.ExtractBatch(ctx, blobs)
	p.Logger.Info("pipeline.extract.ok",
		"run_id", runID,
		"records", res.Corpus.Len(),
		"failed", len(res.Failures),
	)
	p.recordStatus(ctx, runID, query, constants.RunStatusExtracted, res.Corpus.Len(), len(res.Failures))

	res.Prompt = prompt.Compose(res.Corpus, query)
	p.Logger.Info("pipeline.compose.ok", "run_id", runID, "prompt_len", len(res.Prompt))

	analysis, raw, err := p.Analyzer.Analyze(ctx, res.Prompt)
	res.Raw = raw
	if err != nil {
		p.Logger.Error("pipeline.analyze.failed", "run_id", runID, "error", err)
		return res, common.WrapError(err, "analyze")
	}

	res.Report = screening.Reconcile(res.Corpus.IDs(), analysis, p.Logger)
	p.recordStatus(ctx, runID, query, constants.RunStatusAnalyzed, res.Corpus.Len(), len(res.Failures))
	p.Logger.Info("pipeline.reconcile.ok",
		"run_id", runID,
		"ranked", len(res.Report.Candidates),
		"anomalies", len(res.Report.Anomalies),
	)
	return res, nil
}

func (p *Processor) recordStatus(ctx context.Context, runID, query string, status constants.RunStatus, batchSize, failed int) {
	if p.Runs == nil {
		return
	}
	if err := p.Runs.RecordStatus(ctx, runID, query, status, batchSize, failed); err != nil {
		p.Logger.Warn("pipeline.status.record_failed", "run_id", runID, "status", status, "error", err)
	}
}
