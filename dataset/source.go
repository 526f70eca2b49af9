package dataset

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/pivolan/spotviz/config"
)

// Load reads the table a catalog entry points at: a SQL table when Table is
// set and a DSN is configured, otherwise a file under dataDir.
func Load(ctx context.Context, cfg *config.Config, ds config.Dataset) (*Table, error) {
	if ds.Table != "" && cfg.DbDsn != "" {
		db, err := OpenDB(cfg.DbDsn)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		src := &SQLSource{DB: db, Table: ds.Table}
		return src.Load(ctx)
	}
	if ds.Path == "" {
		return nil, fmt.Errorf("dataset %s: no path", ds.Key)
	}
	path := ds.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.DataDir, path)
	}
	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if t.Dropped > 0 {
		log.Printf("dataset %s: %d unparsable numeric values dropped", ds.Key, t.Dropped)
	}
	return t, nil
}
