package models

import (
	"fmt"
	"strconv"
	"strings"
)

type DatasetKind string
type ColorToken string

const (
	// KindByCountry: top 50 per country, year taken from snapshot_date
	KindByCountry DatasetKind = "byCountry"
	// KindWorldwide: worldwide top songs, year is a decimal column ("2000.0")
	KindWorldwide DatasetKind = "worldwide"
	// KindClustered: songs with audio features and cluster_name
	KindClustered DatasetKind = "clustered"
	// KindGenres: songs with a comma separated genre column
	KindGenres DatasetKind = "genres"
)

// Row is one parsed line of a dataset: field name -> string or float64.
type Row map[string]interface{}

// String returns the field as text. Missing fields and empty strings report false.
func (r Row) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// Float returns the field as a number; non-numeric values report false.
func (r Row) Float(field string) (float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Song is the display projection of a chart row (country song list).
type Song struct {
	SpotifyID  string
	Name       string
	Artists    string
	Genre      string
	DailyRank  int
	Popularity int
}

// SongFromRow picks the display fields out of a row.
func SongFromRow(r Row) Song {
	s := Song{}
	s.SpotifyID, _ = r.String("spotify_id")
	s.Name, _ = r.String("name")
	s.Artists, _ = r.String("artists")
	s.Genre, _ = r.String("genre")
	if v, ok := r.Float("daily_rank"); ok {
		s.DailyRank = int(v)
	}
	if v, ok := r.Float("popularity"); ok {
		s.Popularity = int(v)
	}
	return s
}

// HeatCell is one (cluster, feature) cell of the clustering heatmap.
type HeatCell struct {
	Cluster   string     `json:"cluster"`
	Feature   string     `json:"feature"`
	Value     float64    `json:"value"`
	Fraction  float64    `json:"fraction"`
	Color     ColorToken `json:"color"`
	TextColor ColorToken `json:"text_color"`
}

// CountryCell is the derived state of one map feature for the selected year.
type CountryCell struct {
	FeatureID int        `json:"feature_id"`
	Alpha2    string     `json:"alpha2"`
	Name      string     `json:"name"`
	Count     int        `json:"count"`
	Color     ColorToken `json:"color"`
}

// YearCount is one point of a per-year counter series.
type YearCount struct {
	Year  int
	Count int
}
