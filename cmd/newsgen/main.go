// Command newsgen prints the weather news for one date and optionally writes
// the downloadable document.
//
// Usage:
//
//	go run ./cmd/newsgen -date 2025-04-15
//	go run ./cmd/newsgen -date 2025-04-15 -input data/obs.xlsx -docx out/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/dataset"
	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/news"
	"github.com/couchcryptid/weather-news-service/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "newsgen:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("newsgen", flag.ContinueOnError)
	fset.SetOutput(stderr)
	dateFlag := fset.String("date", "", "target date YYYY-MM-DD (default today)")
	input := fset.String("input", "", "CSV or XLSX file (default: synthetic data)")
	seed := fset.Uint64("seed", dataset.DefaultSyntheticSeed, "seed for synthetic data")
	place := fset.String("place", "Madrid", "place name used in the text")
	phrasebook := fset.String("phrasebook", "", "YAML phrasebook (default: embedded English)")
	docx := fset.String("docx", "", "write the document to this file, or into this directory when it ends with /")
	openingIdx := fset.Int("opening", -1, "fixed opening phrase index (default random)")
	if err := fset.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	date := domain.Today()
	if *dateFlag != "" {
		d, err := time.Parse(time.DateOnly, *dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		date = d
	}

	ds, err := loadDataset(*input, *seed, logger)
	if err != nil {
		return err
	}

	phrases, err := domain.LoadPhrasebook(*phrasebook)
	if err != nil {
		return err
	}
	chooser := domain.RandomChooser()
	if *openingIdx >= 0 {
		chooser = domain.FixedChooser(*openingIdx)
	}

	// Metrics stay unregistered: the CLI exposes no endpoint.
	svc := news.NewService(dataset.NewStore(ds), domain.NewNarrator(phrases, chooser),
		news.NewPlaceResolver(*place), nil, observability.NewMetricsForTesting(), logger)
	ctx := context.Background()

	if *docx == "" {
		article, err := svc.Narrate(ctx, date)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, article.Headline)
		fmt.Fprintln(stdout)
		if article.Brief != "" {
			fmt.Fprintln(stdout, "* "+article.Brief)
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, article.Narrative)
		return nil
	}

	doc, err := svc.Document(ctx, date)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return errors.New(svc.MissingRecordMessage())
	}
	if err != nil {
		return err
	}
	path := *docx
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		path = filepath.Join(path, doc.Filename)
	}
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	fmt.Fprintln(stdout, path)
	return nil
}

func loadDataset(input string, seed uint64, logger *slog.Logger) (*domain.Dataset, error) {
	if input == "" {
		return dataset.Synthetic(dataset.SyntheticOptions{Seed: seed}), nil
	}
	return dataset.LoadFile(input, logger)
}
