package dataset

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// ErrNoDataset is returned by Current and readiness checks before any dataset
// has been loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// Store holds the active dataset. Replacing it swaps the whole snapshot;
// readers keep the snapshot they already obtained.
type Store struct {
	current atomic.Pointer[domain.Dataset]
}

// NewStore returns a store, optionally seeded with an initial dataset.
func NewStore(initial *domain.Dataset) *Store {
	s := &Store{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Replace makes ds the active dataset.
func (s *Store) Replace(ds *domain.Dataset) {
	s.current.Store(ds)
}

// Current returns the active dataset.
func (s *Store) Current() (*domain.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// CheckReadiness reports ready once a dataset is loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	_, err := s.Current()
	return err
}
