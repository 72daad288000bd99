package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Data sources.
const (
	DataSourceSynthetic = "synthetic"
	DataSourceFile      = "file"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration

	DataSource     string `validate:"oneof=synthetic file"`
	DataFile       string `validate:"required_if=DataSource file"`
	SyntheticSeed  uint64
	SyntheticStart time.Time
	SyntheticEnd   time.Time

	PlaceName      string `validate:"required"`
	PhrasebookPath string
	UploadMaxBytes int64 `validate:"gt=0"`

	KafkaEnabled   bool
	KafkaBrokers   []string `validate:"required_if=KafkaEnabled true"`
	KafkaNewsTopic string   `validate:"required_if=KafkaEnabled true"`

	// Scheduled generation of the current day's article.
	DigestEnabled  bool
	DigestInterval time.Duration `validate:"gt=0"`

	// Mapbox reverse geocoding of the station coordinates.
	MapboxToken     string `validate:"required_if=MapboxEnabled true"`
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	StationLat *float64 `validate:"omitempty,latitude"`
	StationLon *float64 `validate:"omitempty,longitude"`
}

// HasStation reports whether both station coordinates are configured.
func (c *Config) HasStation() bool {
	return c.StationLat != nil && c.StationLon != nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// envNames maps struct fields to the environment variable they come from, so
// validation errors name the variable.
var envNames = map[string]string{
	"HTTPAddr":       "HTTP_ADDR",
	"LogLevel":       "LOG_LEVEL",
	"LogFormat":      "LOG_FORMAT",
	"DataSource":     "DATA_SOURCE",
	"DataFile":       "DATA_FILE",
	"PlaceName":      "PLACE_NAME",
	"UploadMaxBytes": "UPLOAD_MAX_BYTES",
	"KafkaBrokers":   "KAFKA_BROKERS",
	"KafkaNewsTopic": "KAFKA_NEWS_TOPIC",
	"DigestInterval": "DIGEST_INTERVAL",
	"MapboxToken":    "MAPBOX_TOKEN",
	"StationLat":     "STATION_LAT",
	"StationLon":     "STATION_LON",
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	digestInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("DIGEST_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_INTERVAL: %w", err)
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("SYNTHETIC_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNTHETIC_SEED: %w", err)
	}
	start, err := parseDate("SYNTHETIC_START", "2024-01-01")
	if err != nil {
		return nil, err
	}
	end, err := parseDate("SYNTHETIC_END", "2025-06-30")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.New("SYNTHETIC_END is before SYNTHETIC_START")
	}

	uploadMax, err := strconv.ParseInt(sharedcfg.EnvOrDefault("UPLOAD_MAX_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}

	lat, err := parseCoordinate("STATION_LAT")
	if err != nil {
		return nil, err
	}
	lon, err := parseCoordinate("STATION_LON")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,

		DataSource:     sharedcfg.EnvOrDefault("DATA_SOURCE", DataSourceSynthetic),
		DataFile:       os.Getenv("DATA_FILE"),
		SyntheticSeed:  seed,
		SyntheticStart: start,
		SyntheticEnd:   end,

		PlaceName:      sharedcfg.EnvOrDefault("PLACE_NAME", "Madrid"),
		PhrasebookPath: os.Getenv("PHRASEBOOK_PATH"),
		UploadMaxBytes: uploadMax,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaNewsTopic: strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_NEWS_TOPIC", "weather-news")),

		DigestEnabled:  os.Getenv("DIGEST_ENABLED") == "true",
		DigestInterval: digestInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		StationLat: lat,
		StationLon: lon,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

// describe rewrites the first validation failure in terms of its env var.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name, ok := envNames[fe.StructField()]
	if !ok {
		name = fe.StructField()
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", name)
	default:
		return fmt.Errorf("invalid %s: %v (%s)", name, fe.Value(), fe.Tag())
	}
}

func parseDate(key, def string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func parseCoordinate(key string) (*float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 100
}
