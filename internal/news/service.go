// Package news generates weather news articles from the active dataset.
package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/weather-news-service/internal/dataset"
	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/export"
	"github.com/couchcryptid/weather-news-service/internal/observability"
)

// Output formats, used as metric labels.
const (
	FormatText = "text"
	FormatDocx = "docx"
)

// Datasets holds the active dataset snapshot.
type Datasets interface {
	Current() (*domain.Dataset, error)
	Replace(ds *domain.Dataset)
}

// Publisher delivers generated articles downstream.
type Publisher interface {
	Publish(ctx context.Context, article domain.Article) error
}

// Document is a rendered article ready for download.
type Document struct {
	Article     domain.Article
	Filename    string
	ContentType string
	Content     []byte
}

// Service generates articles for a target date.
type Service struct {
	datasets  Datasets
	narrator  *domain.Narrator
	places    *PlaceResolver
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService wires a news service. publisher may be nil.
func NewService(datasets Datasets, narrator *domain.Narrator, places *PlaceResolver, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		datasets:  datasets,
		narrator:  narrator,
		places:    places,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Narrate composes the news text for date from the month-to-date and history
// statistics. The date itself need not have a record.
func (s *Service) Narrate(ctx context.Context, date time.Time) (domain.Article, error) {
	start := time.Now()
	ds, err := s.datasets.Current()
	if err != nil {
		return domain.Article{}, err
	}

	article := s.compose(ctx, ds, domain.NormalizeDate(date))
	if rec, err := ds.Lookup(article.Date); err == nil {
		article.Brief = s.narrator.Brief(rec)
	}

	s.observe(FormatText, start)
	s.publish(ctx, article)
	return article, nil
}

// Document renders the downloadable document for date. It requires a record
// for the exact date and returns domain.ErrRecordNotFound otherwise.
func (s *Service) Document(ctx context.Context, date time.Time) (Document, error) {
	start := time.Now()
	ds, err := s.datasets.Current()
	if err != nil {
		return Document{}, err
	}

	date = domain.NormalizeDate(date)
	rec, err := ds.Lookup(date)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.metrics.MissingRecords.Inc()
		}
		return Document{}, err
	}

	article := s.compose(ctx, ds, date)
	article.Brief = s.narrator.Brief(rec)

	content, err := export.Docx(export.Document{
		Headline:  article.Headline,
		Brief:     article.Brief,
		Narrative: article.Narrative,
	})
	if err != nil {
		return Document{}, fmt.Errorf("render document: %w", err)
	}

	s.observe(FormatDocx, start)
	s.publish(ctx, article)
	return Document{
		Article:     article,
		Filename:    export.Filename(date),
		ContentType: export.DocxContentType,
		Content:     content,
	}, nil
}

// MissingRecordMessage is the text shown when a date has no record.
func (s *Service) MissingRecordMessage() string {
	return s.narrator.MissingRecordMessage()
}

// Dataset returns the active dataset.
func (s *Service) Dataset() (*domain.Dataset, error) {
	return s.datasets.Current()
}

// LoadDataset parses an uploaded table and makes it the active dataset.
func (s *Service) LoadDataset(name string, r io.Reader) (*domain.Dataset, error) {
	ds, err := dataset.Parse(name, r, s.logger)
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues("upload", "error").Inc()
		return nil, err
	}
	s.Activate(ds, "upload")
	return ds, nil
}

// Activate replaces the active dataset and records it under source.
func (s *Service) Activate(ds *domain.Dataset, source string) {
	s.datasets.Replace(ds)
	s.metrics.DatasetLoads.WithLabelValues(source, "success").Inc()
	s.metrics.DatasetRecords.Set(float64(ds.Len()))
	first, last := ds.Bounds()
	s.logger.Info("dataset loaded",
		"source", ds.Source(),
		"records", ds.Len(),
		"first", first.Format(time.DateOnly),
		"last", last.Format(time.DateOnly),
	)
}

func (s *Service) compose(ctx context.Context, ds *domain.Dataset, date time.Time) domain.Article {
	summary := domain.Summarize(date, ds.Records())
	place := s.places.Resolve(ctx)
	return domain.Article{
		ID:          uuid.NewString(),
		Date:        date,
		Place:       place,
		Headline:    s.narrator.Headline(date),
		Narrative:   s.narrator.Compose(date, summary, place),
		Summary:     summary,
		GeneratedAt: domain.Now(),
	}
}

func (s *Service) observe(format string, start time.Time) {
	s.metrics.ArticlesGenerated.WithLabelValues(format).Inc()
	s.metrics.GenerationDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
}

// publish never fails the caller; errors are logged and counted.
func (s *Service) publish(ctx context.Context, article domain.Article) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, article); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("publish article failed", "id", article.ID, "error", err)
		return
	}
	s.metrics.ArticlesPublished.Inc()
}
