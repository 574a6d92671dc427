package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/talentsift/screener/constants"
	"github.com/talentsift/screener/internal/common"
	"github.com/talentsift/screener/internal/corpus"
	"github.com/talentsift/screener/internal/extract"
	"github.com/talentsift/screener/internal/prompt"
)

// compose extracts a resume directory and prints the exact analysis prompt
// to stdout without calling any provider. Useful for inspecting token usage
// and delimiter handling before spending API quota.
func main() {
	var (
		dir       = flag.String("dir", "", "directory of resume PDFs (required)")
		query     = flag.String("query", "", "HR query / job description text")
		queryFile = flag.String("query-file", "", "file containing the HR query / job description")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: --dir is required")
		os.Exit(1)
	}
	if *query == "" && *queryFile == "" {
		fmt.Fprintln(os.Stderr, "Error: one of --query or --query-file is required")
		os.Exit(1)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	queryText := *query
	if *queryFile != "" {
		b, err := os.ReadFile(*queryFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read query file: %v\n", err)
			os.Exit(1)
		}
		queryText = string(b)
	}

	blobs, err := loadBlobs(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	coord := corpus.NewCoordinator(extract.NewPDFExtractor(), logger,
		corpus.WithWorkers(cfg.Pipeline.Workers))

	cp, failures := coord.ExtractBatch(context.Background(), blobs)
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "Warning: %s could not be extracted: %v\n", f.ID, f.Err)
	}

	fmt.Print(prompt.Compose(cp, queryText))
}

func loadBlobs(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
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
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}
