// Command mrz-batch times zone decoding over recorded datasets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go-passport-mrz/batch"
	"go-passport-mrz/config"
	"go-passport-mrz/logging"
)

type options struct {
	EncodedPath string `env:"MRZ_BATCH_ENCODED"`
	DecodedPath string `env:"MRZ_BATCH_DECODED"`
	OutputCSV   string `env:"MRZ_BATCH_OUTPUT"`
	Sizes       string `env:"MRZ_BATCH_SIZES"`
	Workers     int    `env:"MRZ_BATCH_WORKERS"`
	LogLevel    string `env:"MRZ_LOG_LEVEL"`
}

func main() {
	var opts options
	flag.StringVar(&opts.EncodedPath, "encoded", "records_encoded.json", "Path of the records_encoded document")
	flag.StringVar(&opts.DecodedPath, "decoded", "", "Path of the records_decoded document (optional)")
	flag.StringVar(&opts.OutputCSV, "output", "execution_times.csv", "Path of the timing report")
	flag.StringVar(&opts.Sizes, "sizes", "", "Comma separated record counts to time")
	flag.IntVar(&opts.Workers, "workers", 0, "Decoding workers, defaults to the CPU count")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level")
	flag.Parse()

	if err := config.ParseEnv(&opts); err != nil {
		slog.Error("failed to read environment", "error", err)
		os.Exit(1)
	}
	logging.InitLogger(opts.LogLevel, "text")

	sizes, err := parseSizes(opts.Sizes)
	if err != nil {
		slog.Error("invalid sizes", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rows, err := batch.RunFiles(ctx, batch.Config{
		EncodedPath: opts.EncodedPath,
		DecodedPath: opts.DecodedPath,
		OutputCSV:   opts.OutputCSV,
		Sizes:       sizes,
		Workers:     opts.Workers,
	})
	if err != nil {
		slog.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Results written", "path", opts.OutputCSV, "rows", len(rows))
}

func parseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%q is not a positive record count", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
