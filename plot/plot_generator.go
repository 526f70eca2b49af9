package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
)

var (
	ErrNoData          = errors.New("nothing to plot")
	ErrNotEnoughPoints = errors.New("a line needs at least two years")
)

var defaultBarColor = drawing.ColorFromHex("6100cc").WithAlpha(160)

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

// gridTicks places a tick every calculateGridStep(max) from zero up to max.
func gridTicks(max float64) []chart.Tick {
	step := calculateGridStep(max)
	if step == 0 {
		return nil
	}
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := float64(i) * step
		if v > max+step/2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g", roundTick(v))})
	}
	return ticks
}

func roundTick(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// DrawPlotBar renders any bar data source to PNG bytes.
func DrawPlotBar(data dataForGraph) ([]byte, error) {
	barValues := data.generateBarValues()
	if len(barValues) == 0 {
		return nil, ErrNoData
	}
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(100)
	max := findMaxValue(data.getYValues())
	if max <= 0 {
		max = 1
	}

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.Background = chart.Style{
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
		},
	}
	bar.Height = height + 50
	bar.Width = width + paddingX + 50
	bar.BarWidth = 60
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Name: data.getNameYAxis(),
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: max,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    17,
		},
		Ticks: gridTicks(max),
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			DotWidth:        1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 88,
		FontSize:            17,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DrawTrendLines renders one line per series over release years. Series with
// no points are left out of the chart and the legend.
func DrawTrendLines(series []*analysis.TrendSeries, colors *classify.Ordinal) ([]byte, error) {
	var lines []chart.Series
	years := make(map[int]bool)
	for _, s := range series {
		if s.RowCount == 0 {
			continue
		}
		x := make([]float64, len(s.Points))
		y := make([]float64, len(s.Points))
		for i, p := range s.Points {
			x[i] = float64(p.Year)
			y[i] = p.Value
			years[p.Year] = true
		}
		stroke, err := classify.ParseColor(colors.Color(s.Variable))
		if err != nil {
			stroke = chart.ColorBlue
		}
		lines = append(lines, chart.ContinuousSeries{
			Name:    s.Variable,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
			},
		})
	}
	if len(lines) == 0 {
		return nil, ErrNoData
	}
	if len(years) < 2 {
		return nil, ErrNotEnoughPoints
	}

	graph := chart.Chart{
		Title: "Audio features over time",
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   120,
				Right:  20,
				Bottom: 20,
			},
			FillColor: drawing.ColorWhite,
		},
		Width:  2048,
		Height: 1024,
		XAxis: chart.XAxis{
			Name: "year",
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return fmt.Sprintf("%.0f", vf)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "mean",
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return fmt.Sprintf("%.2f", vf)
				}
				return ""
			},
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DrawGenrePie renders the genre shares of one year.
func DrawGenrePie(year int, counts []analysis.KeyCount, colors *classify.Ordinal) ([]byte, error) {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		fill, err := classify.ParseColor(colors.Color(c.Key))
		if err != nil {
			fill = defaultBarColor
		}
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: c.Key,
			Style: chart.Style{FillColor: fill},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	pie := chart.PieChart{
		Title:  fmt.Sprintf("Genres %d", year),
		Width:  1024,
		Height: 1024,
		Values: values,
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}
