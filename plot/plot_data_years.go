package plot

import (
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/spotviz/domain/models"
)

type dataYearsForGraph struct {
	years     []int
	yValues   []float64
	nameYAxis string
	nameGraph string
}

func NewDataYearsForGraph(counts []models.YearCount, nameYAxis, nameGraph string) dataYearsForGraph {
	d := dataYearsForGraph{nameYAxis: nameYAxis, nameGraph: nameGraph}
	for _, c := range counts {
		d.years = append(d.years, c.Year)
		d.yValues = append(d.yValues, float64(c.Count))
	}
	return d
}

func (d dataYearsForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataYearsForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataYearsForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataYearsForGraph) calculateChartDimensions(minBarWidth float64) (int, int) {
	if len(d.yValues) == 0 {
		return 0, 0
	}
	return calculateChartDimensions(len(d.years), minBarWidth)
}

func (d dataYearsForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.years))
	for i, y := range d.years {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: strconv.Itoa(y),
			Style: chart.Style{FillColor: defaultBarColor},
		})
	}
	return bars
}
