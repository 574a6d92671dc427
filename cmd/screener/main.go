package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/talentsift/screener/constants"
	"github.com/talentsift/screener/internal/common"
	"github.com/talentsift/screener/internal/corpus"
	"github.com/talentsift/screener/internal/export"
	"github.com/talentsift/screener/internal/extract"
	"github.com/talentsift/screener/internal/llm"
	"github.com/talentsift/screener/internal/llm/gemini"
	"github.com/talentsift/screener/internal/llm/groq"
	"github.com/talentsift/screener/internal/pipeline"
	"github.com/talentsift/screener/internal/repository"
	"github.com/talentsift/screener/internal/screening"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of resume PDFs to screen (required)")
		query     = flag.String("query", "", "HR query / job description text")
		queryFile = flag.String("query-file", "", "file containing the HR query / job description")
		filterArg = flag.String("filter", "all", "report filter: all, suitable or not_suitable")
		out       = flag.String("out", "", "output text report path (defaults next to --dir)")
		xlsxOut   = flag.String("xlsx", "", "optional XLSX report path")
		dbPath    = flag.String("db", "", "run-history SQLite path (overrides DB_PATH)")
		workers   = flag.Int("workers", 0, "extraction workers (0 = hardware parallelism)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *query == "" && *queryFile == "" {
		printError("Error: one of --query or --query-file is required\n")
		os.Exit(1)
	}

	filter, err := screening.ParseFilter(*filterArg)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	queryText := *query
	if *queryFile != "" {
		b, err := os.ReadFile(*queryFile)
		if err != nil {
			logger.Error("failed to read query file", "path", *queryFile, "error", err)
			os.Exit(1)
		}
		queryText = string(b)
	}

	names, blobs, err := loadResumeDir(*dir)
	if err != nil {
		logger.Error("failed to load resume directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(blobs) == 0 {
		logger.Error("no resume PDFs found", "dir", *dir)
		os.Exit(1)
	}
	logger.Info("loaded resumes", "dir", *dir, "count", len(blobs))

	analyzer, cleanup, err := newAnalyzer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up analyzer", "provider", cfg.LLM.Provider, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	coord := corpus.NewCoordinator(extract.NewPDFExtractor(), logger,
		corpus.WithWorkers(cfg.Pipeline.Workers))
	proc := pipeline.NewProcessor(logger, coord, analyzer, cfg.Pipeline.MaxResumes)

	var runs *repository.RunRepository
	if cfg.Store.Path != "" {
		db, err := repository.Open(ctx, cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open run store", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		runs = repository.NewRunRepository(db, logger)
		proc.Runs = runs
	}

	llmCtx, cancel := common.WithTimeout(ctx, cfg.LLM.Timeout)
	defer cancel()

	result, runErr := proc.Run(llmCtx, blobs, queryText)
	for _, f := range result.Failures {
		logger.Warn("resume could not be extracted", "id", f.ID, "file", fileForID(names, f.ID), "error", f.Err)
	}

	if runs != nil {
		saveRun(ctx, runs, result, runErr, logger)
	}
	if runErr != nil {
		var upstream *llm.UpstreamError
		if errors.As(runErr, &upstream) {
			logger.Error("analysis failed upstream", "provider", upstream.Provider, "stage", upstream.Stage, "error", upstream.Err)
		} else {
			logger.Error("screening run failed", "error", runErr)
		}
		os.Exit(1)
	}

	report := screening.RenderText(result.Report, filter)
	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(*dir), "screening_report.txt")
	}
	if err := os.WriteFile(outPath, []byte(report), 0o644); err != nil {
		logger.Error("failed to write report", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("report written", "path", outPath, "filter", string(filter))

	if *xlsxOut != "" {
		xlsx, err := export.NewService(logger).ReportXLSX(result.Report, filter)
		if err != nil {
			logger.Error("failed to build xlsx report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, xlsx, 0o644); err != nil {
			logger.Error("failed to write xlsx report", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx report written", "path", *xlsxOut)
	}
}

// loadResumeDir reads every allowed resume file in lexical name order, which
// fixes the submission order and therefore the R-NNN identifier assignment.
func loadResumeDir(dir string) ([]string, [][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.IsAllowedExt(filepath.Ext(e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	blobs := make([][]byte, 0, len(names))
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		blobs = append(blobs, b)
	}
	return names, blobs, nil
}

// fileForID maps an R-NNN identifier back to the submitted file name.
func fileForID(names []string, id string) string {
	for i := range names {
		if corpus.FormatID(i+1) == id {
			return names[i]
		}
	}
	return ""
}

func newAnalyzer(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.Analyzer, func(), error) {
	switch cfg.LLM.Provider {
	case common.ProviderGroq:
		client := groq.NewClient(groq.Config{
			APIKey:      cfg.LLM.GroqAPIKey,
			Model:       cfg.LLM.GroqModel,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		return client, func() {}, nil
	case common.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.LLM.GeminiAPIKey,
			Model:       cfg.LLM.GeminiModel,
			Temperature: cfg.LLM.Temperature,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
}

func saveRun(ctx context.Context, runs *repository.RunRepository, result pipeline.RunResult, runErr error, logger *slog.Logger) {
	status := constants.RunStatusAnalyzed
	if runErr != nil {
		status = constants.RunStatusFailed
	}
	reportJSON := ""
	if runErr == nil {
		if b, err := json.Marshal(result.Report); err == nil {
			reportJSON = string(b)
		}
	}
	run := repository.Run{
		ID:          result.RunID,
		Query:       result.Query,
		RoleType:    string(result.Report.RoleType),
		Summary:     result.Report.Summary,
		ReportJSON:  reportJSON,
		RawResponse: result.Raw,
		Status:      status,
		BatchSize:   result.Corpus.Len(),
		FailedSlots: len(result.Failures),
	}
	if err := runs.Save(ctx, run); err != nil {
		logger.Warn("failed to persist run", "run_id", result.RunID, "error", err)
	}
}
