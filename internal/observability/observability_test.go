package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-news-service/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "warn", "json")

		logger.Info("dropped")
		logger.Warn("kept", "date", "2025-04-15")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "kept", line["msg"])
		assert.Equal(t, "2025-04-15", line["date"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "debug", "text").Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
		assert.Equal(t, slog.LevelError, parseLevel("error"))
	})

	t.Run("from config", func(t *testing.T) {
		logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"})
		assert.NotNil(t, logger)
	})
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}

	m.ArticlesGenerated.WithLabelValues("docx").Inc()
	m.DatasetRecords.Set(547)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["weather_news_articles_generated_total"])
	assert.Equal(t, 547.0, values["weather_news_dataset_records"])
}
