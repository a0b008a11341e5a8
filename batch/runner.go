// Package batch times decoding over a dataset of recorded zones, with and
// without per-record assertions, and writes the timings as CSV.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"go-passport-mrz/mrz"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultSizes are the prefix lengths timed when Config.Sizes is empty.
var DefaultSizes = []int{100, 1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000}

// Config names the dataset files, the report path and how to run the pass.
// Empty Sizes means DefaultSizes; Workers <= 0 means one per CPU.
type Config struct {
	EncodedPath string
	DecodedPath string
	OutputCSV   string
	Sizes       []int
	Workers     int
}

// Row is one line of the timing report.
type Row struct {
	LinesRead      int
	TimeNoTests    time.Duration
	TimeWithTests  time.Duration
	MismatchedRows int
	MalformedRows  int
}

// ErrNoPassportNumber fails a timed pass whose record decoded to an empty
// passport number.
var ErrNoPassportNumber = errors.New("decoded record has no passport number")

// Run times every configured size against ds. Sizes beyond the dataset are
// clamped to its length.
func Run(ctx context.Context, cfg Config, ds Dataset) ([]Row, error) {
	sizes := cfg.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	runId := uuid.NewString()
	slog.Info("Starting batch run", "run_id", runId, "records", len(ds.Encoded), "decoded_records", len(ds.Decoded), "workers", workers)

	rows := make([]Row, 0, len(sizes))
	for _, k := range sizes {
		if k > len(ds.Encoded) {
			k = len(ds.Encoded)
		}
		subset := ds.Encoded[:k]

		start := time.Now()
		if err := processNoTests(ctx, subset, workers); err != nil {
			return nil, fmt.Errorf("size %d without tests: %w", k, err)
		}
		noTests := time.Since(start)

		start = time.Now()
		counts, err := processWithTests(ctx, subset, workers)
		if err != nil {
			return nil, fmt.Errorf("size %d with tests: %w", k, err)
		}
		withTests := time.Since(start)

		slog.Debug("Batch size timed", "run_id", runId, "lines_read", k, "no_tests", noTests, "with_tests", withTests, "mismatched", counts.mismatched, "malformed", counts.malformed)
		rows = append(rows, Row{
			LinesRead:      k,
			TimeNoTests:    noTests,
			TimeWithTests:  withTests,
			MismatchedRows: counts.mismatched,
			MalformedRows:  counts.malformed,
		})
	}

	slog.Info("Batch run finished", "run_id", runId, "rows", len(rows))
	return rows, nil
}

// RunFiles loads the dataset named in cfg, runs it and writes the report.
func RunFiles(ctx context.Context, cfg Config) ([]Row, error) {
	ds, err := LoadDataset(cfg)
	if err != nil {
		return nil, err
	}
	rows, err := Run(ctx, cfg, ds)
	if err != nil {
		return nil, err
	}
	if err := WriteReportFile(cfg.OutputCSV, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// processNoTests only decodes. Short zones are still an error.
func processNoTests(ctx context.Context, records []Record, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := mrz.Decode(rec.Line1, rec.Line2)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// recordOutcome is what the assertions found for one record.
type recordOutcome int

const (
	outcomeValid recordOutcome = iota
	outcomeMismatched
	outcomeMalformed
)

// tally counts the record outcomes of one timed pass.
type tally struct {
	mismatched int
	malformed  int
}

// processWithTests decodes, asserts a passport number was read and computes
// the mismatch report. Only decoding failures and missing passport numbers
// stop the pass; malformed check digits are counted.
func processWithTests(ctx context.Context, records []Record, workers int) (tally, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	outcomes := make([]recordOutcome, len(records))
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fields, err := mrz.Decode(rec.Line1, rec.Line2)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			if strings.Trim(fields.PassportNumber, string(mrz.Filler)) == "" {
				return fmt.Errorf("record %d: %w", i, ErrNoPassportNumber)
			}
			mismatches, err := mrz.Mismatches(fields)
			switch {
			case errors.Is(err, mrz.ErrMalformedCheckDigit):
				outcomes[i] = outcomeMalformed
			case err != nil:
				return fmt.Errorf("record %d: %w", i, err)
			case len(mismatches) > 0:
				outcomes[i] = outcomeMismatched
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}
	if err := ctx.Err(); err != nil {
		return tally{}, err
	}

	var t tally
	for _, o := range outcomes {
		switch o {
		case outcomeMismatched:
			t.mismatched++
		case outcomeMalformed:
			t.malformed++
		}
	}
	return t, nil
}
