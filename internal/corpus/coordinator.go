package corpus

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/talentsift/screener/internal/common"
	"github.com/talentsift/screener/internal/extract"
)

// Failure reports one slot whose extraction failed. The slot keeps its
// identifier in the corpus with empty text.
type Failure struct {
	ID  string
	Err error
}

// Coordinator fans a batch of resume blobs out across a bounded worker pool
// and reassembles results in submission order. Identifiers depend only on
// submission position, never on completion timing.
type Coordinator struct {
	extractor extract.TextExtractor
	logger    *slog.Logger
	workers   int
}

type Option func(*Coordinator)

// WithWorkers bounds the pool size. Defaults to hardware parallelism.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

func NewCoordinator(extractor extract.TextExtractor, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		extractor: extractor,
		logger:    logger,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type slot struct {
	text string
	err  error
}

// ExtractBatch extracts every blob and returns the ordered corpus plus a side
// list of per-slot failures. A failed slot never aborts the batch; it keeps
// its identifier with empty text. An empty batch yields an empty corpus.
func (c *Coordinator) ExtractBatch(ctx context.Context, blobs [][]byte) (*Corpus, []Failure) {
	if len(blobs) == 0 {
		return New(nil), nil
	}

	workers := c.workers
	if workers > len(blobs) {
		workers = len(blobs)
	}

	// Each worker writes only its own claimed slots; the WaitGroup is the
	// fan-in barrier, so no further synchronization is needed.
	slots := make([]slot, len(blobs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					slots[idx] = slot{err: &extract.Error{Cause: err}}
					continue
				}
				text, err := c.extractor.Extract(ctx, blobs[idx])
				slots[idx] = slot{text: text, err: err}
			}
		}()
	}
	for idx := range blobs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	runID := common.RunIDFromContext(ctx)
	records := make([]Record, len(blobs))
	var failures []Failure
	for idx, s := range slots {
		id := FormatID(idx + 1)
		if s.err != nil {
			records[idx] = Record{ID: id, Failed: true}
			failures = append(failures, Failure{ID: id, Err: s.err})

			var exErr *extract.Error
			if !errors.As(s.err, &exErr) {
				// Extractor contract violation; still isolated to the slot.
				c.logger.Warn("extract.batch.untyped_error", "run_id", runID, "id", id, "error", s.err)
			}
			c.logger.Warn("extract.batch.slot_failed", "run_id", runID, "id", id, "error", s.err)
			continue
		}
		records[idx] = Record{ID: id, Text: s.text}
	}

	c.logger.Info("extract.batch.ok",
		"run_id", runID,
		"total", len(blobs),
		"failed", len(failures),
		"workers", workers,
	)
	return New(records), failures
}
