// Command gendata writes a reproducible synthetic observation table as CSV,
// for seeding a deployment or building test fixtures.
//
// Usage:
//
//	go run ./cmd/gendata -out data/observations.csv -seed 42 \
//	  -start 2024-01-01 -end 2025-06-30
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/dataset"
	"github.com/couchcryptid/weather-news-service/internal/domain"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fset := flag.NewFlagSet("gendata", flag.ContinueOnError)
	out := fset.String("out", "", "output CSV path")
	seed := fset.Uint64("seed", dataset.DefaultSyntheticSeed, "random seed")
	start := fset.String("start", dataset.DefaultSyntheticStart.Format(time.DateOnly), "first date YYYY-MM-DD")
	end := fset.String("end", dataset.DefaultSyntheticEnd.Format(time.DateOnly), "last date YYYY-MM-DD")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		fset.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	opts := dataset.SyntheticOptions{Seed: *seed}
	var err error
	if opts.Start, err = time.Parse(time.DateOnly, *start); err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if opts.End, err = time.Parse(time.DateOnly, *end); err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}
	if opts.End.Before(opts.Start) {
		return fmt.Errorf("-end %s is before -start %s", *end, *start)
	}

	records := dataset.Generate(opts)
	if err := writeCSV(*out, records); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d records to %s", len(records), *out)

	printStats(records)
	return nil
}

func writeCSV(path string, records []domain.DailyRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// printStats reports the summary of the last generated day, handy when
// updating test assertions that depend on the seed.
func printStats(records []domain.DailyRecord) {
	if len(records) == 0 {
		return
	}
	last := records[len(records)-1].Date
	s := domain.Summarize(last, records)

	fmt.Printf("\n=== Summary for %s ===\n", last.Format(time.DateOnly))
	fmt.Printf("Days in month: %d\n", s.Days)
	fmt.Printf("Mean %.1f, min %.1f, max %.1f\n", s.MeanTemp.Value, s.MinTemp.Value, s.MaxTemp.Value)
	fmt.Printf("Precipitation %.1f mm, sunshine %.0f min\n", s.Precipitation.Value, s.Sunshine.Value)
	fmt.Printf("History mean %.1f, mean precipitation %.2f mm/day\n", s.HistMeanTemp.Value, s.HistMeanPrecip.Value)
}
