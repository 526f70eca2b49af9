package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DbDsn       string
	DataDir     string
	GeoPath     string
	CatalogPath string
	Addr        string
	OutDir      string
	// MusicBrainz enrichment
	UserAgent   string
	RateLimit   time.Duration
	MusicBrainz string

	Catalog *Catalog
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration. A missing .env file is not
// an error: the environment and compiled defaults are used instead.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("config: .env not loaded: %v", err)
		}
		config = FromEnv()
	})
	return config
}

// FromEnv builds a Config from the current environment.
func FromEnv() *Config {
	c := &Config{
		DbDsn:       os.Getenv("DB_DSN"),
		DataDir:     getenv("DATA_DIR", "data"),
		GeoPath:     os.Getenv("GEO_PATH"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		Addr:        getenv("HTTP_ADDR", ":8080"),
		OutDir:      getenv("OUT_DIR", "out"),
		UserAgent:   getenv("MB_USER_AGENT", "SpotifyVisualization/1.0 (educational project)"),
		RateLimit:   1100 * time.Millisecond,
		MusicBrainz: getenv("MB_URL", "https://musicbrainz.org/ws/2"),
	}
	if ms, err := strconv.Atoi(os.Getenv("MB_RATE_MS")); err == nil && ms > 0 {
		c.RateLimit = time.Duration(ms) * time.Millisecond
	}

	c.Catalog = DefaultCatalog()
	if c.CatalogPath != "" {
		cat, err := LoadCatalog(c.CatalogPath)
		if err != nil {
			log.Printf("config: catalog %s ignored: %v", c.CatalogPath, err)
		} else {
			c.Catalog = cat
		}
	}
	return c
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
