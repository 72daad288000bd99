package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// ErrLegacyXLS is returned for BIFF workbooks, which the spreadsheet reader
// cannot open.
var ErrLegacyXLS = errors.New("legacy .xls workbooks are not supported, save as .xlsx")

// Parse reads a table whose format is chosen by the file name's extension
// (.csv, .xlsx). Legacy .xls workbooks are rejected. Later duplicates of a date are dropped with a warning.
func Parse(name string, r io.Reader, logger *slog.Logger) (*domain.Dataset, error) {
	var (
		records []domain.DailyRecord
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		records, err = ReadCSV(r)
	case ".xlsx":
		records, err = ReadXLSX(r)
	case ".xls":
		return nil, ErrLegacyXLS
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	ds, dropped := domain.NewDataset(filepath.Base(name), records)
	if len(dropped) > 0 {
		dates := make([]string, len(dropped))
		for i, d := range dropped {
			dates[i] = d.Format(time.DateOnly)
		}
		logger.Warn("duplicate dates dropped", "source", ds.Source(), "count", len(dropped), "dates", dates)
	}
	return ds, nil
}

// LoadFile opens path and parses it with Parse.
func LoadFile(path string, logger *slog.Logger) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Parse(path, f, logger)
}
