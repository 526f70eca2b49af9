package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/dataset"
)

var fixtures = map[string]string{
	"top50": "spotify_id,name,artists,daily_rank,country,snapshot_date\n" +
		"1,first fr,A,1,FR,2025-01-01\n" +
		"2,second fr,B,2,FR,2025-01-01\n" +
		"3,only us,C,1,US,2024-05-01\n",
	"clustered": "name,artists,cluster_name,energy,danceability,pca_x,pca_y,album_release_date\n" +
		"a,A,Hip-Hop / Urban,0.8,0.7,1.0,2.0,2019-01-01\n" +
		"b,B,Mellow & Acoustic,0.2,0.3,-1.0,0.5,2020-01-01\n",
	"trends": "spotify_id,album_release_date,tempo,energy\n" +
		"a,2019-01-01,120,0.5\n" +
		"b,2020-01-01,124,0.6\n",
	"genres": "name,genre,year\n" +
		"a,\"pop, rock\",2019\n" +
		"b,pop,2019\n" +
		"c,set(),2019\n",
}

var errNoFixture = errors.New("no fixture")

// testApp serves the fixtures above instead of reading DATA_DIR. Datasets
// without a fixture fail to load.
func testApp(t *testing.T) *app {
	cfg := config.FromEnv()
	cfg.OutDir = t.TempDir()
	cfg.GeoPath = ""
	cfg.DbDsn = ""
	cfg.Catalog = config.DefaultCatalog()
	a := newApp(cfg)
	a.load = func(ctx context.Context, cfg *config.Config, ds config.Dataset) (*dataset.Table, error) {
		body, ok := fixtures[ds.Key]
		if !ok {
			return nil, errNoFixture
		}
		return dataset.ReadCSV(strings.NewReader(body))
	}
	return a
}
