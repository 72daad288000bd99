package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrRecordNotFound is returned when an exact-date lookup finds no record.
var ErrRecordNotFound = errors.New("record not found")

// Field identifies one observation column of a DailyRecord.
type Field uint8

const (
	FieldMeanTemp Field = 1 << iota
	FieldMinTemp
	FieldMaxTemp
	FieldPrecipitation
	FieldSunshine
)

// DailyRecord is one calendar day of weather observations. Fields flagged in
// Missing had no usable value in the source and are skipped by aggregates;
// their numeric value is meaningless.
type DailyRecord struct {
	Date            time.Time
	MeanTemp        float64
	MinTemp         float64
	MaxTemp         float64
	PrecipitationMM float64
	SunshineMinutes float64
	Missing         Field
}

// Has reports whether f holds an observed value.
func (r DailyRecord) Has(f Field) bool {
	return r.Missing&f == 0
}

// Stat returns f as a Stat, Absent when the value is missing.
func (r DailyRecord) Stat(f Field) Stat {
	if !r.Has(f) {
		return Absent
	}
	switch f {
	case FieldMeanTemp:
		return Present(r.MeanTemp)
	case FieldMinTemp:
		return Present(r.MinTemp)
	case FieldMaxTemp:
		return Present(r.MaxTemp)
	case FieldPrecipitation:
		return Present(r.PrecipitationMM)
	case FieldSunshine:
		return Present(r.SunshineMinutes)
	default:
		return Absent
	}
}

// recordJSON is the wire shape of a DailyRecord; missing values encode as null.
type recordJSON struct {
	Date            time.Time `json:"date"`
	MeanTemp        Stat      `json:"mean_temp"`
	MinTemp         Stat      `json:"min_temp"`
	MaxTemp         Stat      `json:"max_temp"`
	PrecipitationMM Stat      `json:"precipitation_mm"`
	SunshineMinutes Stat      `json:"sunshine_minutes"`
}

func (r DailyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Date:            r.Date,
		MeanTemp:        r.Stat(FieldMeanTemp),
		MinTemp:         r.Stat(FieldMinTemp),
		MaxTemp:         r.Stat(FieldMaxTemp),
		PrecipitationMM: r.Stat(FieldPrecipitation),
		SunshineMinutes: r.Stat(FieldSunshine),
	})
}

func (r *DailyRecord) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = DailyRecord{Date: w.Date}
	r.MeanTemp = r.set(FieldMeanTemp, w.MeanTemp)
	r.MinTemp = r.set(FieldMinTemp, w.MinTemp)
	r.MaxTemp = r.set(FieldMaxTemp, w.MaxTemp)
	r.PrecipitationMM = r.set(FieldPrecipitation, w.PrecipitationMM)
	r.SunshineMinutes = r.set(FieldSunshine, w.SunshineMinutes)
	return nil
}

func (r *DailyRecord) set(f Field, s Stat) float64 {
	if !s.Valid {
		r.Missing |= f
	}
	return s.Value
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Dataset is an immutable collection of daily records, one per date, kept in
// the order they were loaded.
type Dataset struct {
	source  string
	records []DailyRecord
	index   map[string]int
}

// NewDataset normalizes record dates and drops later duplicates of a date.
// It returns the dataset and the dates that were dropped.
func NewDataset(source string, records []DailyRecord) (*Dataset, []time.Time) {
	ds := &Dataset{
		source:  source,
		records: make([]DailyRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	var dropped []time.Time
	for _, rec := range records {
		rec.Date = NormalizeDate(rec.Date)
		key := dateKey(rec.Date)
		if _, ok := ds.index[key]; ok {
			dropped = append(dropped, rec.Date)
			continue
		}
		ds.index[key] = len(ds.records)
		ds.records = append(ds.records, rec)
	}
	return ds, dropped
}

// Source describes where the records came from, e.g. "synthetic" or a file name.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records in load order.
func (d *Dataset) Records() []DailyRecord {
	return slices.Clone(d.records)
}

// Lookup returns the record for the given calendar date.
func (d *Dataset) Lookup(date time.Time) (DailyRecord, error) {
	date = NormalizeDate(date)
	i, ok := d.index[dateKey(date)]
	if !ok {
		return DailyRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, date.Format(time.DateOnly))
	}
	return d.records[i], nil
}

// Bounds returns the earliest and latest record dates. Both are zero for an
// empty dataset.
func (d *Dataset) Bounds() (first, last time.Time) {
	for i, rec := range d.records {
		if i == 0 || rec.Date.Before(first) {
			first = rec.Date
		}
		if i == 0 || rec.Date.After(last) {
			last = rec.Date
		}
	}
	return first, last
}
