package domain

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed phrasebook.yaml
var defaultPhrasebook []byte

// Phrasebook is the catalogue of sentence templates used by the Narrator.
type Phrasebook struct {
	Months      []string `yaml:"months"`
	DateLayout  string   `yaml:"date_layout"`
	Openings    []string `yaml:"openings"`
	OpeningJoin string   `yaml:"opening_join"`
	Temperature struct {
		Mean      string `yaml:"mean"`
		Max       string `yaml:"max"`
		Min       string `yaml:"min"`
		Separator string `yaml:"separator"`
	} `yaml:"temperature"`
	TempComparison  string `yaml:"temp_comparison"`
	Higher          string `yaml:"higher"`
	Lower           string `yaml:"lower"`
	NoPrecipitation string `yaml:"no_precipitation"`
	ScarceRain      string `yaml:"scarce_rain"`
	RainCollected   string `yaml:"rain_collected"`
	RainComparison  string `yaml:"rain_comparison"`
	Sunshine        string `yaml:"sunshine"`
	Hottest         string `yaml:"hottest"`
	Coldest         string `yaml:"coldest"`
	Headline        string `yaml:"headline"`
	Brief           string `yaml:"brief"`
	MissingRecord   string `yaml:"missing_record"`
	MissingValue    string `yaml:"missing_value"`

	openings  []*template.Template
	templates map[string]*template.Template
}

// phraseData is the single data shape every template renders against.
type phraseData struct {
	Place         string
	Month         string
	Year          int
	Value         string
	Direction     string
	Hours         string
	Minutes       string
	Date          string
	Mean          string
	Min           string
	Max           string
	Precipitation string
}

// DefaultPhrasebook returns the embedded English phrasebook.
func DefaultPhrasebook() *Phrasebook {
	p, err := ParsePhrasebook(bytes.NewReader(defaultPhrasebook))
	if err != nil {
		panic(fmt.Sprintf("embedded phrasebook: %v", err))
	}
	return p
}

// LoadPhrasebook reads a phrasebook from path, or returns the embedded default
// when path is empty.
func LoadPhrasebook(path string) (*Phrasebook, error) {
	if path == "" {
		return DefaultPhrasebook(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrasebook: %w", err)
	}
	defer f.Close()
	return ParsePhrasebook(f)
}

// ParsePhrasebook decodes and compiles a YAML phrasebook.
func ParsePhrasebook(r io.Reader) (*Phrasebook, error) {
	var p Phrasebook
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode phrasebook: %w", err)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Phrasebook) compile() error {
	if len(p.Months) != 12 {
		return fmt.Errorf("phrasebook: expected 12 month names, got %d", len(p.Months))
	}
	if len(p.Openings) == 0 {
		return errors.New("phrasebook: at least one opening is required")
	}
	if p.DateLayout == "" {
		p.DateLayout = "02-01-2006"
	}
	if p.MissingValue == "" {
		p.MissingValue = "n/a"
	}

	p.openings = make([]*template.Template, 0, len(p.Openings))
	for i, src := range p.Openings {
		t, err := parsePhrase(fmt.Sprintf("opening[%d]", i), src)
		if err != nil {
			return err
		}
		p.openings = append(p.openings, t)
	}

	named := map[string]string{
		"temperature.mean": p.Temperature.Mean,
		"temperature.max":  p.Temperature.Max,
		"temperature.min":  p.Temperature.Min,
		"temp_comparison":  p.TempComparison,
		"no_precipitation": p.NoPrecipitation,
		"scarce_rain":      p.ScarceRain,
		"rain_collected":   p.RainCollected,
		"rain_comparison":  p.RainComparison,
		"sunshine":         p.Sunshine,
		"hottest":          p.Hottest,
		"coldest":          p.Coldest,
		"headline":         p.Headline,
		"brief":            p.Brief,
		"missing_record":   p.MissingRecord,
	}
	p.templates = make(map[string]*template.Template, len(named))
	for name, src := range named {
		if src == "" {
			return fmt.Errorf("phrasebook: %s is required", name)
		}
		t, err := parsePhrase(name, src)
		if err != nil {
			return err
		}
		p.templates[name] = t
	}
	return nil
}

// parsePhrase compiles a template and dry-runs it so field typos fail at load.
func parsePhrase(name, src string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("phrasebook: %s: %w", name, err)
	}
	if err := t.Execute(io.Discard, phraseData{}); err != nil {
		return nil, fmt.Errorf("phrasebook: %s: %w", name, err)
	}
	return t, nil
}

func (p *Phrasebook) render(name string, data phraseData) string {
	return execute(p.templates[name], data)
}

func (p *Phrasebook) monthName(m int) string {
	return p.Months[m-1]
}

func execute(t *template.Template, data phraseData) string {
	var b strings.Builder
	// Dry-run at load guarantees execution against phraseData succeeds.
	_ = t.Execute(&b, data)
	return b.String()
}
