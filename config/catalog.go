package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
)

// Year formats of a dataset's year column.
const (
	YearDate    = "date"    // "2024-05-01"
	YearDecimal = "decimal" // "2000.0"
)

var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset describes one selectable table.
type Dataset struct {
	Key         string             `toml:"-"`
	Label       string             `toml:"label"`
	Kind        models.DatasetKind `toml:"kind"`
	Path        string             `toml:"path"`
	Table       string             `toml:"table"`
	YearField   string             `toml:"year_field"`
	YearFormat  string             `toml:"year_format"`
	KeyField    string             `toml:"key_field"`
	MinYear     int                `toml:"min_year"`
	MaxYear     int                `toml:"max_year"`
	DefaultYear int                `toml:"default_year"`
	// SkipKeys are key values excluded before grouping.
	SkipKeys []string `toml:"skip_keys"`
	// Classifier names an entry of Catalog.Classifiers used to color the map.
	Classifier string `toml:"classifier"`
}

// InRange reports whether year is inside the selectable range.
func (d Dataset) InRange(year int) bool {
	return year >= d.MinYear && year <= d.MaxYear
}

// ClampYear pins year into the selectable range.
func (d Dataset) ClampYear(year int) int {
	if year < d.MinYear {
		return d.MinYear
	}
	if year > d.MaxYear {
		return d.MaxYear
	}
	return year
}

type Catalog struct {
	Default     string                     `toml:"default"`
	Datasets    map[string]Dataset         `toml:"datasets"`
	Classifiers map[string]classify.Config `toml:"classifiers"`
}

// Get returns the dataset registered under key.
func (c *Catalog) Get(key string) (Dataset, error) {
	d, ok := c.Datasets[key]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnknownDataset, key)
	}
	d.Key = key
	return d, nil
}

// Keys lists dataset keys alphabetically.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Datasets))
	for k := range c.Datasets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Classifier returns the named classifier configuration, or the song-count
// table when the name is empty or not registered.
func (c *Catalog) Classifier(name string) classify.Config {
	if cfg, ok := c.Classifiers[name]; ok {
		return cfg
	}
	return classify.SongCountConfig()
}

// Validate checks every dataset and classifier entry.
func (c *Catalog) Validate() error {
	if _, ok := c.Datasets[c.Default]; !ok {
		return fmt.Errorf("default dataset %q: %w", c.Default, ErrUnknownDataset)
	}
	for key, d := range c.Datasets {
		if d.Path == "" && d.Table == "" {
			return fmt.Errorf("dataset %s: needs path or table", key)
		}
		if d.YearField == "" || d.KeyField == "" {
			return fmt.Errorf("dataset %s: needs year_field and key_field", key)
		}
		if d.MinYear == 0 && d.MaxYear == 0 {
			return fmt.Errorf("dataset %s: needs min_year and max_year", key)
		}
		if d.YearFormat != "" && d.YearFormat != YearDate && d.YearFormat != YearDecimal {
			return fmt.Errorf("dataset %s: year_format %q", key, d.YearFormat)
		}
		if d.MinYear > d.MaxYear {
			return fmt.Errorf("dataset %s: min_year %d > max_year %d", key, d.MinYear, d.MaxYear)
		}
		if d.DefaultYear != 0 && !d.InRange(d.DefaultYear) {
			return fmt.Errorf("dataset %s: default_year %d out of range", key, d.DefaultYear)
		}
	}
	for name, cfg := range c.Classifiers {
		if _, err := cfg.Build(); err != nil {
			return fmt.Errorf("classifier %s: %w", name, err)
		}
	}
	return nil
}

// catalogFile is the raw TOML document; entries stay undecoded until they
// are laid over their defaults.
type catalogFile struct {
	Default     string                    `toml:"default"`
	Datasets    map[string]toml.Primitive `toml:"datasets"`
	Classifiers map[string]toml.Primitive `toml:"classifiers"`
}

// LoadCatalog decodes a TOML catalog over the defaults. Entries missing from
// the file keep their defaults, and an entry in the file only replaces the
// fields it sets.
func LoadCatalog(path string) (*Catalog, error) {
	var file catalogFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cat := DefaultCatalog()
	if file.Default != "" {
		cat.Default = file.Default
	}
	for key, prim := range file.Datasets {
		d := cat.Datasets[key]
		if err := md.PrimitiveDecode(prim, &d); err != nil {
			return nil, fmt.Errorf("decode %s: dataset %s: %w", path, key, err)
		}
		cat.Datasets[key] = d
	}
	for name, prim := range file.Classifiers {
		cfg := cat.Classifiers[name]
		if err := md.PrimitiveDecode(prim, &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: classifier %s: %w", path, name, err)
		}
		cat.Classifiers[name] = cfg
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// DefaultCatalog is the compiled-in set of chart tables.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Default: "top50",
		Datasets: map[string]Dataset{
			"top50": {
				Label:       "Top 50 of 71 countries",
				Kind:        models.KindByCountry,
				Path:        "top_50_71Countries_from_2023_to_2025.csv",
				YearField:   "snapshot_date",
				YearFormat:  YearDate,
				KeyField:    "country",
				MinYear:     2023,
				MaxYear:     2025,
				DefaultYear: 2025,
				Classifier:  "presence",
			},
			"bestsongs": {
				Label:       "Worldwide top 50 songs per year",
				Kind:        models.KindWorldwide,
				Path:        "top_50mondialSongPerYear_from_2000_to_2023.csv",
				YearField:   "year",
				YearFormat:  YearDecimal,
				KeyField:    "country",
				MinYear:     2000,
				MaxYear:     2022,
				DefaultYear: 2022,
				SkipKeys:    []string{"UNKNOWN"},
				Classifier:  "song_count",
			},
			"clustered": {
				Label:       "Top 50 clustered by audio profile",
				Kind:        models.KindClustered,
				Path:        "top_50_clustered.csv",
				YearField:   "album_release_date",
				YearFormat:  YearDate,
				KeyField:    "cluster_name",
				MinYear:     2018,
				MaxYear:     2024,
				DefaultYear: 2024,
			},
			"trends": {
				Label:       "Daily chart snapshot with audio features",
				Kind:        models.KindClustered,
				Path:        "spotify_2025_06_11.csv",
				YearField:   "album_release_date",
				YearFormat:  YearDate,
				KeyField:    "spotify_id",
				MinYear:     1900,
				MaxYear:     2100,
				DefaultYear: 2025,
			},
			"genres": {
				Label:       "Hit songs with genres",
				Kind:        models.KindGenres,
				Path:        "songs_normalize.csv",
				YearField:   "year",
				YearFormat:  YearDecimal,
				KeyField:    "genre",
				MinYear:     1999,
				MaxYear:     2019,
				DefaultYear: 2019,
				SkipKeys:    []string{"set()"},
			},
		},
		Classifiers: map[string]classify.Config{
			"presence":   classify.BinaryConfig(),
			"song_count": classify.SongCountConfig(),
		},
	}
}
