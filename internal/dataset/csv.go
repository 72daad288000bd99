package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// ReadCSV parses a header-first CSV table into records.
func ReadCSV(r io.Reader) ([]domain.DailyRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: %w", ErrNoDateColumn)
	}

	records, err := toRecords(rows[0], rows[1:], parseDateText)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// WriteCSV writes records with the canonical Header.
func WriteCSV(w io.Writer, records []domain.DailyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Date.Format(time.DateOnly),
			formatStat(rec.Stat(domain.FieldMeanTemp)),
			formatStat(rec.Stat(domain.FieldMinTemp)),
			formatStat(rec.Stat(domain.FieldMaxTemp)),
			formatStat(rec.Stat(domain.FieldPrecipitation)),
			formatStat(rec.Stat(domain.FieldSunshine)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", row[0], err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatStat writes missing values as empty cells.
func formatStat(s domain.Stat) string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}
