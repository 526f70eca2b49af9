package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/dataset"
	"github.com/pivolan/spotviz/geo"
	"github.com/pivolan/spotviz/viewstate"
)

type loadFunc func(ctx context.Context, cfg *config.Config, ds config.Dataset) (*dataset.Table, error)

// app is shared by the commands and the web server. Parsed tables are cached
// per dataset key for the life of the process.
type app struct {
	cfg  *config.Config
	load loadFunc

	mu       sync.Mutex
	tables   map[string]*dataset.Table
	features []geo.Feature
}

func newApp(cfg *config.Config) *app {
	return &app{cfg: cfg, load: dataset.Load, tables: make(map[string]*dataset.Table)}
}

// dataset resolves key, falling back to the catalog default when empty.
func (a *app) dataset(key string) (config.Dataset, error) {
	if key == "" {
		key = a.cfg.Catalog.Default
	}
	return a.cfg.Catalog.Get(key)
}

func (a *app) table(ctx context.Context, ds config.Dataset) (*dataset.Table, error) {
	a.mu.Lock()
	t, ok := a.tables[ds.Key]
	a.mu.Unlock()
	if ok {
		return t, nil
	}
	t, err := a.load(ctx, a.cfg, ds)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ds.Key, err)
	}
	a.mu.Lock()
	a.tables[ds.Key] = t
	a.mu.Unlock()
	return t, nil
}

func (a *app) classifier(ds config.Dataset) (classify.Classifier, error) {
	c, err := a.cfg.Catalog.Classifier(ds.Classifier).Build()
	if err != nil {
		return nil, fmt.Errorf("classifier %q: %w", ds.Classifier, err)
	}
	return c, nil
}

// worldFeatures reads GEO_PATH when set, otherwise one feature per known
// country.
func (a *app) worldFeatures() ([]geo.Feature, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.features != nil {
		return a.features, nil
	}
	if a.cfg.GeoPath == "" {
		a.features = analysis.WorldFeatures()
		return a.features, nil
	}
	f, err := os.Open(a.cfg.GeoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	features, err := geo.LoadFeatures(f)
	if err != nil {
		return nil, fmt.Errorf("geo %s: %w", a.cfg.GeoPath, err)
	}
	a.features = features
	return features, nil
}

// snapshot derives the map view of state: its grouped table and classifier.
func (a *app) snapshot(ctx context.Context, state viewstate.State) (*viewstate.Snapshot, error) {
	ds, err := a.dataset(state.Dataset)
	if err != nil {
		return nil, err
	}
	t, err := a.table(ctx, ds)
	if err != nil {
		return nil, err
	}
	c, err := a.classifier(ds)
	if err != nil {
		return nil, err
	}
	return &viewstate.Snapshot{State: state, Table: analysis.YearTable(t.Rows, ds), Classifier: c}, nil
}
