// Package analysis derives the per-view data (map cells, song lists, cluster
// heatmap, trends, genre shares, summary statistics) from grouped rows.
package analysis

import (
	"math"
	"sort"

	"github.com/pivolan/spotviz/domain/models"
)

type NumberStats struct {
	Field     string
	Average   float64
	Median    float64
	Min       float64
	Max       float64
	Count     int
	Quantiles map[float64]float64
	IQR       float64
	Outliers  int
}

// QuantileLevels are the quantiles reported for every numeric field.
var QuantileLevels = []float64{0.01, 0.1, 0.25, 0.75, 0.9, 0.99}

// FieldValues collects the numeric values of field, skipping rows without one.
func FieldValues(rows []models.Row, field string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Float(field); ok {
			out = append(out, v)
		}
	}
	return out
}

func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}

// AnalyzeNumbers computes summary metrics; nil for an empty slice.
func AnalyzeNumbers(field string, numbers []float64) *NumberStats {
	if len(numbers) == 0 {
		return nil
	}
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	sum := 0.0
	for _, num := range numbers {
		sum += num
	}

	quantiles := make(map[float64]float64, len(QuantileLevels))
	for _, p := range QuantileLevels {
		quantiles[p] = roundToTwo(calculateQuantile(sorted, p))
	}
	q1 := calculateQuantile(sorted, 0.25)
	q3 := calculateQuantile(sorted, 0.75)
	iqr := q3 - q1

	outliers := 0
	for _, num := range numbers {
		if num < q1-1.5*iqr || num > q3+1.5*iqr {
			outliers++
		}
	}

	return &NumberStats{
		Field:     field,
		Average:   roundToTwo(sum / float64(len(numbers))),
		Median:    roundToTwo(calculateQuantile(sorted, 0.5)),
		Min:       roundToTwo(sorted[0]),
		Max:       roundToTwo(sorted[len(sorted)-1]),
		Count:     len(numbers),
		Quantiles: quantiles,
		IQR:       roundToTwo(iqr),
		Outliers:  outliers,
	}
}

// Summary analyzes every listed field that has at least one numeric value.
func Summary(rows []models.Row, fields []string) []*NumberStats {
	var out []*NumberStats
	for _, f := range fields {
		if s := AnalyzeNumbers(f, FieldValues(rows, f)); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func roundToTwo(num float64) float64 {
	return math.Round(num*100) / 100
}
