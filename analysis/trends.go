package analysis

import (
	"fmt"
	"sort"

	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/grouping"
)

// TrendVariables are the audio variables that can be plotted over time.
var TrendVariables = []string{
	"danceability", "energy", "key", "loudness", "mode", "speechiness",
	"acousticness", "instrumentalness", "liveness", "valence", "tempo",
}

// DefaultTrend is selected when nothing else is.
const DefaultTrend = "tempo"

// TrendPoint holds the mean of every variable for one release year.
type TrendPoint struct {
	Year  int
	Means map[string]float64
}

// YearValue is one point of a single-variable series.
type YearValue struct {
	Year  int
	Value float64
}

type TrendSeries struct {
	Variable  string
	Points    []YearValue
	StartYear int
	EndYear   int
	RowCount  int
}

// Trends averages the variables per album release year. A song listed several
// times in the same year counts once.
func Trends(rows []models.Row) []TrendPoint {
	table := grouping.GroupByYear(rows, "album_release_date", "spotify_id", grouping.YearFromDate)
	years := append([]int(nil), table.Years...)
	sort.Ints(years)

	out := make([]TrendPoint, 0, len(years))
	for _, y := range years {
		unique := make([]models.Row, 0, len(table.Cells[y]))
		for _, bucket := range table.Cells[y] {
			unique = append(unique, bucket[0])
		}
		p := TrendPoint{Year: y, Means: make(map[string]float64, len(TrendVariables))}
		for _, v := range TrendVariables {
			if m, ok := grouping.Mean(unique, v); ok {
				p.Means[v] = m
			}
		}
		out = append(out, p)
	}
	return out
}

// Series extracts one variable from the yearly points.
func Series(points []TrendPoint, variable string) *TrendSeries {
	s := &TrendSeries{Variable: variable}
	for _, p := range points {
		v, ok := p.Means[variable]
		if !ok {
			continue
		}
		if len(s.Points) == 0 {
			s.StartYear = p.Year
		}
		s.EndYear = p.Year
		s.Points = append(s.Points, YearValue{Year: p.Year, Value: v})
	}
	s.RowCount = len(s.Points)
	return s
}

// Description is a short caption for a rendered series.
func (s *TrendSeries) Description() string {
	if s.RowCount == 0 {
		return fmt.Sprintf("%s: no data", s.Variable)
	}
	return fmt.Sprintf("%s: %d points, %d to %d", s.Variable, s.RowCount, s.StartYear, s.EndYear)
}
