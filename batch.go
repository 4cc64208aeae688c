package mailvet

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/quentale/mailvet/cache"
)

// Summary describes one completed batch run.
type Summary struct {
	// RunID is the ULID assigned to the run.
	RunID string

	// Rows is the number of output rows written.
	Rows int

	// Skipped is the number of syntactically invalid addresses dropped.
	Skipped int

	// Domains is the number of domains in the cache after the run,
	// including entries loaded from the snapshot.
	Domains int
}

// Batch drives one validation run: addresses in, classified rows out, with
// the domain cache loaded before processing and snapshotted after.
//
// Processing is strictly sequential; each domain resolution completes,
// including any network lookups, before the next address is read.
type Batch struct {
	verifier *Verifier
	store    cache.Store
	logger   *slog.Logger
	runID    string
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets the logger for run-level events.
func WithBatchLogger(l *slog.Logger) BatchOption {
	return func(b *Batch) { b.logger = l }
}

// NewBatch creates a batch driver. A nil store disables cross-run
// memoization; the run still uses an in-memory cache so repeated domains
// within the batch resolve once.
func NewBatch(verifier *Verifier, store cache.Store, opts ...BatchOption) *Batch {
	b := &Batch{
		verifier: verifier,
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		runID:    ulid.Make().String(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunID returns the ULID assigned to this run.
func (b *Batch) RunID() string {
	return b.runID
}

// Run processes the input file and writes classified rows to the output
// path. The input extension is validated before anything else; syntax
// rejections and lookup failures are absorbed per address, while input and
// cache persistence faults abort the run.
func (b *Batch) Run(ctx context.Context, inputPath, outputPath string) (Summary, error) {
	summary := Summary{RunID: b.runID}
	logger := b.logger.With("run_id", b.runID)

	if !ValidInputExtension(inputPath) {
		return summary, fmt.Errorf("%w: %s", ErrUnsupportedInput, inputPath)
	}

	facts, err := b.loadCache(ctx)
	if err != nil {
		return summary, err
	}
	logger.Info("cache loaded", "domains", facts.Len())

	out, err := createOutput(outputPath)
	if err != nil {
		return summary, err
	}
	defer out.Close()

	rows := newRowWriter(out)
	if err := rows.writeHeader(); err != nil {
		return summary, fmt.Errorf("write output header: %w", err)
	}

	err = forEachAddress(inputPath, func(address string) error {
		if !IsValidAddress(address) {
			if address != "" {
				summary.Skipped++
			}
			return nil
		}

		domain, err := ExtractDomain(address)
		if err != nil {
			summary.Skipped++
			return nil
		}

		fact := b.verifier.Resolve(ctx, domain, facts)

		if err := rows.writeRow(address, domain, fact); err != nil {
			return fmt.Errorf("write output row: %w", err)
		}
		summary.Rows++
		return nil
	})
	if err != nil {
		return summary, err
	}

	if err := rows.flush(); err != nil {
		return summary, fmt.Errorf("flush output: %w", err)
	}
	if err := out.Close(); err != nil {
		return summary, fmt.Errorf("close output: %w", err)
	}

	if b.store != nil {
		if err := b.store.Save(ctx, facts); err != nil {
			return summary, err
		}
	}

	summary.Domains = facts.Len()
	logger.Info("run complete",
		"rows", summary.Rows,
		"skipped", summary.Skipped,
		"domains", summary.Domains,
	)
	return summary, nil
}

func (b *Batch) loadCache(ctx context.Context) (*cache.Cache, error) {
	if b.store == nil {
		return cache.New(), nil
	}
	return b.store.Load(ctx)
}
