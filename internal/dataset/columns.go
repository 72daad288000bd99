// Package dataset builds the immutable daily-record datasets the news service
// summarizes: seeded synthetic generation, CSV and XLSX parsing, and the store
// that holds the active snapshot.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// ErrNoDateColumn is returned when a table has no fecha/date column.
var ErrNoDateColumn = errors.New("missing date column (fecha)")

// column aliases accepted in header rows, matched case-insensitively.
var columnAliases = map[string][]string{
	"date":          {"fecha", "date"},
	"mean":          {"temp_media", "mean_temp"},
	"min":           {"temp_min", "min_temp"},
	"max":           {"temp_max", "max_temp"},
	"precipitation": {"precipitacion", "precipitación", "precipitation_mm"},
	"sunshine":      {"sol", "sunshine_minutes"},
}

// Header is the canonical column order written by WriteCSV.
var Header = []string{"fecha", "temp_media", "temp_min", "temp_max", "precipitacion", "sol"}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// columnIndex maps canonical field names to their column position.
type columnIndex map[string]int

func indexHeader(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := columnIndex{}
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				idx[field] = i
				break
			}
		}
	}
	if _, ok := idx["date"]; !ok {
		return nil, ErrNoDateColumn
	}
	return idx, nil
}

func (c columnIndex) get(row []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number reads a cell as a finite float64. Empty, unparsable, NaN and
// infinite cells report ok=false.
func (c columnIndex) number(row []string, field string) (v float64, ok bool) {
	s := strings.Replace(c.get(row, field), ",", ".", 1)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// fieldColumns pairs record fields with their canonical column name.
var fieldColumns = []struct {
	field  domain.Field
	column string
}{
	{domain.FieldMeanTemp, "mean"},
	{domain.FieldMinTemp, "min"},
	{domain.FieldMaxTemp, "max"},
	{domain.FieldPrecipitation, "precipitation"},
	{domain.FieldSunshine, "sunshine"},
}

// record builds the observations of one row; cells without a usable number
// are flagged missing rather than defaulted.
func (c columnIndex) record(date time.Time, row []string) domain.DailyRecord {
	rec := domain.DailyRecord{Date: date}
	for _, fc := range fieldColumns {
		v, ok := c.number(row, fc.column)
		if !ok {
			rec.Missing |= fc.field
			continue
		}
		switch fc.field {
		case domain.FieldMeanTemp:
			rec.MeanTemp = v
		case domain.FieldMinTemp:
			rec.MinTemp = v
		case domain.FieldMaxTemp:
			rec.MaxTemp = v
		case domain.FieldPrecipitation:
			rec.PrecipitationMM = v
		case domain.FieldSunshine:
			rec.SunshineMinutes = v
		}
	}
	return rec
}

// toRecords converts data rows into records. Row numbers in errors are
// 1-based and count the header.
func toRecords(header []string, rows [][]string, parseDate func(string) (time.Time, error)) ([]domain.DailyRecord, error) {
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.DailyRecord, 0, len(rows))
	for i, row := range rows {
		raw := idx.get(row, "date")
		if raw == "" {
			if isBlank(row) {
				continue
			}
			return nil, fmt.Errorf("row %d: empty date", i+2)
		}
		date, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, idx.record(date, row))
	}
	return records, nil
}

func parseDateText(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
