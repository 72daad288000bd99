package domain

import "time"

// Summary holds the statistics of a target month up to the target date and of
// all earlier months.
type Summary struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Days  int        `json:"days"`

	MeanTemp      Stat `json:"mean_temp"`
	MinTemp       Stat `json:"min_temp"`
	MaxTemp       Stat `json:"max_temp"`
	Precipitation Stat `json:"precipitation_mm"`
	Sunshine      Stat `json:"sunshine_minutes"`

	HistMeanTemp   Stat `json:"hist_mean_temp"`
	HistMeanPrecip Stat `json:"hist_mean_precipitation_mm"`
	HistMaxTemp    Stat `json:"hist_max_temp"`
	HistMinTemp    Stat `json:"hist_min_temp"`

	Hottest *DailyRecord `json:"hottest,omitempty"`
	Coldest *DailyRecord `json:"coldest,omitempty"`
}

// Partition splits records on or before target into the target's month and
// everything before that month. Iteration order is preserved.
func Partition(target time.Time, records []DailyRecord) (current, history []DailyRecord) {
	target = NormalizeDate(target)
	monthStart := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, rec := range records {
		d := NormalizeDate(rec.Date)
		if d.After(target) {
			continue
		}
		if d.Before(monthStart) {
			history = append(history, rec)
		} else {
			current = append(current, rec)
		}
	}
	return current, history
}

// Summarize aggregates the records for the month of target, up to and including
// target, and the history before that month. The target date need not be
// present in records. Missing values are skipped field by field; a field with
// no values in a subset is absent.
func Summarize(target time.Time, records []DailyRecord) Summary {
	target = NormalizeDate(target)
	current, history := Partition(target, records)

	s := Summary{
		Year:  target.Year(),
		Month: target.Month(),
		Days:  len(current),
	}

	var mean, precip, sun accumulator
	for i, rec := range current {
		mean.add(rec.Stat(FieldMeanTemp))
		precip.add(rec.Stat(FieldPrecipitation))
		sun.add(rec.Stat(FieldSunshine))
		if rec.Has(FieldMaxTemp) && (s.Hottest == nil || rec.MaxTemp > s.Hottest.MaxTemp) {
			s.Hottest = &current[i]
		}
		if rec.Has(FieldMinTemp) && (s.Coldest == nil || rec.MinTemp < s.Coldest.MinTemp) {
			s.Coldest = &current[i]
		}
	}
	s.MeanTemp = mean.mean()
	s.Precipitation = precip.total()
	s.Sunshine = sun.total()
	if s.Hottest != nil {
		s.MaxTemp = Present(s.Hottest.MaxTemp)
	}
	if s.Coldest != nil {
		s.MinTemp = Present(s.Coldest.MinTemp)
	}

	var histMean, histPrecip, histMax, histMin accumulator
	for _, rec := range history {
		histMean.add(rec.Stat(FieldMeanTemp))
		histPrecip.add(rec.Stat(FieldPrecipitation))
		histMax.add(rec.Stat(FieldMaxTemp))
		histMin.add(rec.Stat(FieldMinTemp))
	}
	s.HistMeanTemp = histMean.mean()
	s.HistMeanPrecip = histPrecip.mean()
	s.HistMaxTemp = histMax.maximum()
	s.HistMinTemp = histMin.minimum()

	return s
}

// accumulator folds the present values of one field.
type accumulator struct {
	n             int
	sum, min, max float64
}

func (a *accumulator) add(v Stat) {
	if !v.Valid {
		return
	}
	if a.n == 0 {
		a.min, a.max = v.Value, v.Value
	}
	a.n++
	a.sum += v.Value
	a.min = min(a.min, v.Value)
	a.max = max(a.max, v.Value)
}

func (a accumulator) mean() Stat {
	if a.n == 0 {
		return Absent
	}
	return Present(a.sum / float64(a.n))
}

func (a accumulator) total() Stat {
	if a.n == 0 {
		return Absent
	}
	return Present(a.sum)
}

func (a accumulator) maximum() Stat {
	if a.n == 0 {
		return Absent
	}
	return Present(a.max)
}

func (a accumulator) minimum() Stat {
	if a.n == 0 {
		return Absent
	}
	return Present(a.min)
}
