package domain

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	// scarceRainThreshold is the monthly accumulation (mm) below which rain is
	// reported as scarce.
	scarceRainThreshold = 10.0

	// rainComparisonFactor is how many times the historical mean daily
	// precipitation the month must exceed to be called out.
	rainComparisonFactor = 3.0

	// tempComparisonDeadband is the difference (°C) between the month mean and
	// the historical mean that must be exceeded for a comparison sentence.
	tempComparisonDeadband = 0.5

	// comparisonEpsilon absorbs float error in means of one-decimal readings.
	comparisonEpsilon = 1e-9
)

// Chooser picks an index in [0, n). n is always > 0.
type Chooser func(n int) int

// RandomChooser picks uniformly at random.
func RandomChooser() Chooser {
	return rand.IntN
}

// FixedChooser always picks index i (modulo n, so negative i wraps).
func FixedChooser(i int) Chooser {
	return func(n int) int { return ((i % n) + n) % n }
}

// Narrator composes news text from summaries.
type Narrator struct {
	phrases *Phrasebook
	choose  Chooser
}

// NewNarrator creates a Narrator. A nil phrasebook uses the embedded default;
// a nil chooser picks openings at random.
func NewNarrator(phrases *Phrasebook, choose Chooser) *Narrator {
	if phrases == nil {
		phrases = DefaultPhrasebook()
	}
	if choose == nil {
		choose = RandomChooser()
	}
	return &Narrator{phrases: phrases, choose: choose}
}

// Openings returns every candidate opening phrase for the target month.
func (n *Narrator) Openings(target time.Time, place string) []string {
	data := phraseData{
		Place: place,
		Month: n.phrases.monthName(int(target.Month())),
		Year:  target.Year(),
	}
	out := make([]string, len(n.phrases.openings))
	for i, t := range n.phrases.openings {
		out[i] = execute(t, data)
	}
	return out
}

// Compose builds the news paragraph for a summary. Clauses whose statistics
// are absent are omitted.
func (n *Narrator) Compose(target time.Time, s Summary, place string) string {
	openings := n.Openings(target, place)
	first := openings[n.choose(len(openings))]
	if temps := n.temperatureClause(s); temps != "" {
		first += n.phrases.OpeningJoin + temps
	}

	sentences := []string{first}
	if p := n.precipitationClause(s); p != "" {
		sentences = append(sentences, p)
	}
	if sun := n.sunshineClause(s); sun != "" {
		sentences = append(sentences, sun)
	}
	sentences = append(sentences, n.comparativeClauses(s)...)
	sentences = append(sentences, n.highlightClauses(s)...)

	var b strings.Builder
	for _, sentence := range sentences {
		b.WriteString(terminate(sentence))
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

// Headline returns the automatic headline for a date.
func (n *Narrator) Headline(date time.Time) string {
	return n.phrases.render("headline", phraseData{Date: date.Format(n.phrases.DateLayout)})
}

// Brief returns a one-sentence summary of a single day's observations.
// Values the record lacks render as the phrasebook's missing value.
func (n *Narrator) Brief(rec DailyRecord) string {
	data := phraseData{
		Date:          rec.Date.Format(n.phrases.DateLayout),
		Mean:          n.briefValue(rec.Stat(FieldMeanTemp)),
		Min:           n.briefValue(rec.Stat(FieldMinTemp)),
		Max:           n.briefValue(rec.Stat(FieldMaxTemp)),
		Precipitation: n.briefValue(rec.Stat(FieldPrecipitation)),
		Hours:         n.phrases.MissingValue,
		Minutes:       n.phrases.MissingValue,
	}
	if rec.Has(FieldSunshine) {
		data.Hours, data.Minutes = splitMinutes(rec.SunshineMinutes)
	}
	return terminate(n.phrases.render("brief", data))
}

func (n *Narrator) briefValue(s Stat) string {
	if !s.Valid {
		return n.phrases.MissingValue
	}
	return formatValue(s.Value)
}

// MissingRecordMessage is the user-facing text for a date without data.
func (n *Narrator) MissingRecordMessage() string {
	return n.phrases.render("missing_record", phraseData{})
}

func (n *Narrator) temperatureClause(s Summary) string {
	var parts []string
	if s.MeanTemp.Valid {
		parts = append(parts, n.phrases.render("temperature.mean", phraseData{Value: formatValue(s.MeanTemp.Value)}))
	}
	if s.MaxTemp.Valid {
		parts = append(parts, n.phrases.render("temperature.max", phraseData{Value: formatValue(s.MaxTemp.Value)}))
	}
	if s.MinTemp.Valid {
		parts = append(parts, n.phrases.render("temperature.min", phraseData{Value: formatValue(s.MinTemp.Value)}))
	}
	return strings.Join(parts, n.phrases.Temperature.Separator)
}

func (n *Narrator) precipitationClause(s Summary) string {
	if !s.Precipitation.Valid {
		return ""
	}
	total := s.Precipitation.Value
	switch {
	case total == 0:
		return n.phrases.render("no_precipitation", phraseData{})
	case total < scarceRainThreshold:
		return n.phrases.render("scarce_rain", phraseData{Value: formatValue(scarceAmount(total))})
	default:
		return n.phrases.render("rain_collected", phraseData{Value: formatValue(total)})
	}
}

func (n *Narrator) sunshineClause(s Summary) string {
	if !s.Sunshine.Valid || !(s.Sunshine.Value > 0) {
		return ""
	}
	hours, minutes := splitMinutes(s.Sunshine.Value)
	return n.phrases.render("sunshine", phraseData{Hours: hours, Minutes: minutes})
}

func (n *Narrator) comparativeClauses(s Summary) []string {
	var out []string

	if s.MeanTemp.Valid && s.HistMeanTemp.Valid {
		diff := s.MeanTemp.Value - s.HistMeanTemp.Value
		if math.Abs(diff) > tempComparisonDeadband+comparisonEpsilon {
			direction := n.phrases.Higher
			if diff < 0 {
				direction = n.phrases.Lower
			}
			out = append(out, n.phrases.render("temp_comparison", phraseData{
				Direction: direction,
				Value:     formatValue(s.HistMeanTemp.Value),
			}))
		}
	}

	if rainfallStandsOut(s) {
		out = append(out, n.phrases.render("rain_comparison", phraseData{
			Value: formatValue(s.HistMeanPrecip.Value),
		}))
	}

	return out
}

// rainfallStandsOut applies only to months at or above scarceRainThreshold.
// A dry history (mean exactly 0) counts as exceeded.
func rainfallStandsOut(s Summary) bool {
	if !s.Precipitation.Valid || !s.HistMeanPrecip.Valid {
		return false
	}
	current, hist := s.Precipitation.Value, s.HistMeanPrecip.Value
	if current < scarceRainThreshold {
		return false
	}
	return current > rainComparisonFactor*hist || (hist == 0 && current > 0)
}

func (n *Narrator) highlightClauses(s Summary) []string {
	var out []string
	if s.Hottest != nil {
		out = append(out, n.phrases.render("hottest", phraseData{
			Date:  s.Hottest.Date.Format(n.phrases.DateLayout),
			Value: formatValue(s.Hottest.MaxTemp),
		}))
	}
	if s.Coldest != nil {
		out = append(out, n.phrases.render("coldest", phraseData{
			Date:  s.Coldest.Date.Format(n.phrases.DateLayout),
			Value: formatValue(s.Coldest.MinTemp),
		}))
	}
	return out
}

func splitMinutes(total float64) (hours, minutes string) {
	m := int(total)
	return strconv.Itoa(m / 60), strconv.Itoa(m % 60)
}

// scarceAmount truncates to one decimal, keeping positive totals at or above
// 0.1 and strictly below scarceRainThreshold once formatted.
func scarceAmount(v float64) float64 {
	t := math.Floor(v*10+comparisonEpsilon) / 10
	return min(max(t, 0.1), scarceRainThreshold-0.1)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func terminate(sentence string) string {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" || strings.HasSuffix(sentence, ".") {
		return sentence
	}
	return sentence + "."
}
