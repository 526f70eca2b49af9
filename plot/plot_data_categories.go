package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
)

// dataCategoriesForGraph is one bar per label, each filled with its own color.
type dataCategoriesForGraph struct {
	labels    []string
	yValues   []float64
	colors    []models.ColorToken
	nameYAxis string
	nameGraph string
}

func NewDataCategoriesForGraph(labels []string, y []float64, colors []models.ColorToken, nameYAxis, nameGraph string) dataCategoriesForGraph {
	return dataCategoriesForGraph{
		labels:    labels,
		yValues:   y,
		colors:    colors,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

// CountryBars charts the song count per country, each bar in the color the
// classifier gives that count on the map.
func CountryBars(totals []analysis.KeyCount, c classify.Classifier, title string) dataCategoriesForGraph {
	labels := make([]string, len(totals))
	values := make([]float64, len(totals))
	colors := make([]models.ColorToken, len(totals))
	for i, kc := range totals {
		labels[i] = kc.Key
		values[i] = float64(kc.Count)
		colors[i] = c.Classify(values[i])
	}
	return NewDataCategoriesForGraph(labels, values, colors, "songs", title)
}

func (d dataCategoriesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataCategoriesForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataCategoriesForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataCategoriesForGraph) calculateChartDimensions(minBarWidth float64) (int, int) {
	if len(d.yValues) == 0 {
		return 0, 0
	}
	return calculateChartDimensions(len(d.labels), minBarWidth)
}

// fill falls back to the default bar color for a missing or malformed token.
func (d dataCategoriesForGraph) fill(i int) drawing.Color {
	if i < len(d.colors) {
		if c, err := classify.ParseColor(d.colors[i]); err == nil {
			return c
		}
	}
	return defaultBarColor
}

func (d dataCategoriesForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.labels))
	for i := 0; i < len(d.labels) && i < len(d.yValues); i++ {
		fill := d.fill(i)
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: d.labels[i],
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: chart.ColorBlack,
				StrokeWidth: 1,
			},
		})
	}
	return bars
}
