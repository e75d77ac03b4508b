package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"propchat/internal/model"
)

// ErrDatasetNotLoaded is returned while no dataset is available for search
var ErrDatasetNotLoaded = errors.New("dataset not loaded")

// LoadState is the lifecycle state of the dataset
type LoadState string

const (
	StateNotLoaded LoadState = "NOT_LOADED"
	StateLoading   LoadState = "LOADING"
	StateLoaded    LoadState = "LOADED"
	StateFailed    LoadState = "FAILED"
)

// DatasetStatus is a point-in-time view of the store for health reporting
type DatasetStatus struct {
	State      LoadState      `json:"state"`
	Source     string         `json:"source,omitempty"`
	Counts     map[string]int `json:"counts,omitempty"`
	Properties int            `json:"properties"`
	LoadedAt   *time.Time     `json:"loadedAt,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// DatasetStore holds the flattened property collection. It is written once
// per Load and read concurrently afterwards.
type DatasetStore struct {
	schema *Schema
	logger zerolog.Logger

	mu         sync.RWMutex
	state      LoadState
	source     string
	counts     map[string]int
	properties []model.Property
	loadedAt   time.Time
	loadErr    error
}

// NewDatasetStore creates an empty store using schema for every load
func NewDatasetStore(schema *Schema, logger zerolog.Logger) *DatasetStore {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &DatasetStore{
		schema: schema,
		logger: logger.With().Str("component", "dataset").Logger(),
		state:  StateNotLoaded,
	}
}

// Load reads all four collections from src and replaces the property set.
// The previous set, if any, is dropped only when the new load succeeds.
func (d *DatasetStore) Load(ctx context.Context, src Source) error {
	d.mu.Lock()
	if d.properties == nil {
		d.state = StateLoading
	}
	d.mu.Unlock()

	properties, counts, err := d.read(ctx, src)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.source = src.Name()
	if err != nil {
		d.loadErr = err
		if d.properties == nil {
			d.state = StateFailed
		}
		d.logger.Error().Err(err).Str("source", src.Name()).Msg("Dataset load failed")
		return fmt.Errorf("load dataset from %s: %w", src.Name(), err)
	}

	d.properties = properties
	d.counts = counts
	d.loadedAt = time.Now()
	d.loadErr = nil
	d.state = StateLoaded

	d.logger.Info().
		Str("source", src.Name()).
		Int(CollectionProjects, counts[CollectionProjects]).
		Int(CollectionAddresses, counts[CollectionAddresses]).
		Int(CollectionConfigurations, counts[CollectionConfigurations]).
		Int(CollectionVariants, counts[CollectionVariants]).
		Int("properties", len(properties)).
		Msg("Dataset loaded")
	return nil
}

func (d *DatasetStore) read(ctx context.Context, src Source) ([]model.Property, map[string]int, error) {
	if err := d.schema.Validate(); err != nil {
		return nil, nil, err
	}

	collections := make(map[string][]Record, 4)
	counts := make(map[string]int, 4)
	for _, table := range d.schema.Tables() {
		records, err := src.Fetch(ctx, table)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", table.Name, err)
		}
		collections[table.Name] = records
		counts[table.Name] = len(records)
	}

	properties := joinProperties(
		collections[CollectionProjects],
		collections[CollectionAddresses],
		collections[CollectionConfigurations],
		collections[CollectionVariants],
	)
	return properties, counts, nil
}

// Properties returns the loaded collection. The slice is shared and must not
// be modified.
func (d *DatasetStore) Properties() ([]model.Property, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.properties == nil {
		if d.loadErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetNotLoaded, d.loadErr)
		}
		return nil, ErrDatasetNotLoaded
	}
	return d.properties, nil
}

// Status reports the current load state
func (d *DatasetStore) Status() DatasetStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st := DatasetStatus{
		State:      d.state,
		Source:     d.source,
		Properties: len(d.properties),
	}
	if len(d.counts) > 0 {
		st.Counts = make(map[string]int, len(d.counts))
		for k, v := range d.counts {
			st.Counts[k] = v
		}
	}
	if !d.loadedAt.IsZero() {
		t := d.loadedAt
		st.LoadedAt = &t
	}
	if d.loadErr != nil {
		st.Error = d.loadErr.Error()
	}
	return st
}
