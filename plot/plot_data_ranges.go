package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// dataRangeXValuesForGraph is a histogram: bar i counts values in
// [xStart[i], xEnd[i]).
type dataRangeXValuesForGraph struct {
	xStart, xEnd []float64
	yValues      []float64
	nameYAxis    string
	nameGraph    string
}

func NewDataRangeXValuesForGraph(xStart, xEnd, y []float64, nameYAxis, nameGraph string) dataRangeXValuesForGraph {
	return dataRangeXValuesForGraph{
		xStart:    xStart,
		xEnd:      xEnd,
		yValues:   y,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

// Histogram splits values into bins equal-width ranges between their min and
// max. The last range is closed so the max lands in it.
func Histogram(field string, values []float64, bins int) dataRangeXValuesForGraph {
	d := dataRangeXValuesForGraph{nameYAxis: "rows", nameGraph: "Distribution of " + field}
	if len(values) == 0 || bins <= 0 {
		return d
	}
	min, max := values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min == max {
		bins = 1
	}
	step := (max - min) / float64(bins)
	d.xStart = make([]float64, bins)
	d.xEnd = make([]float64, bins)
	d.yValues = make([]float64, bins)
	for i := 0; i < bins; i++ {
		d.xStart[i] = min + float64(i)*step
		d.xEnd[i] = min + float64(i+1)*step
	}
	d.xEnd[bins-1] = max
	for _, v := range values {
		i := bins - 1
		if step > 0 {
			i = int((v - min) / step)
		}
		if i >= bins {
			i = bins - 1
		}
		d.yValues[i]++
	}
	return d
}

func (d dataRangeXValuesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataRangeXValuesForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataRangeXValuesForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataRangeXValuesForGraph) calculateChartDimensions(minBarWidth float64) (int, int) {
	if len(d.yValues) == 0 {
		return 0, 0
	}
	return calculateChartDimensions(len(d.xStart), minBarWidth)
}

// labelFormat keeps two decimals for ranges narrower than one unit, which
// audio features in [0, 1] always are.
func (d dataRangeXValuesForGraph) labelFormat() string {
	if len(d.xStart) > 0 && d.xEnd[0]-d.xStart[0] < 1 {
		return "%.2f-%.2f"
	}
	return "%.f-%.f"
}

func (d dataRangeXValuesForGraph) generateBarValues() []chart.Value {
	format := d.labelFormat()
	bars := make([]chart.Value, 0, len(d.xStart))
	for i := range d.xStart {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: fmt.Sprintf(format, d.xStart[i], d.xEnd[i]),
			Style: chart.Style{FillColor: defaultBarColor},
		})
	}
	return bars
}
