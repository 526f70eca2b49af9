package plot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
)

var pngMagic = []byte("\x89PNG")

func TestCalculateGridStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 0},
		{-5, 0},
		{3, 1},
		{10, 2},
		{150, 50},
		{4500, 1000},
		{0.8, 0.2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, calculateGridStep(tt.max), 1e-9, "max=%v", tt.max)
	}
}

func TestGridTicks(t *testing.T) {
	ticks := gridTicks(10)
	require.Len(t, ticks, 6)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "10", ticks[5].Label)
	assert.Nil(t, gridTicks(0))
}

func TestCountryBarsUseClassifierColors(t *testing.T) {
	c, err := classify.SongCountConfig().Build()
	require.NoError(t, err)
	data := CountryBars([]analysis.KeyCount{{Key: "FR", Count: 3}, {Key: "US", Count: 1}}, c, "Top 50 2025")

	bars := data.generateBarValues()
	require.Len(t, bars, 2)
	assert.Equal(t, "FR", bars[0].Label)
	want, err := classify.ParseColor("#d9c2ff")
	require.NoError(t, err)
	assert.Equal(t, want, bars[0].Style.FillColor)

	png, err := DrawPlotBar(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestBadColorFallsBack(t *testing.T) {
	data := NewDataCategoriesForGraph([]string{"a"}, []float64{1}, []models.ColorToken{"purple"}, "n", "bad")
	assert.Equal(t, defaultBarColor, data.generateBarValues()[0].Style.FillColor)
}

func TestYearBars(t *testing.T) {
	data := NewDataYearsForGraph([]models.YearCount{{Year: 2019, Count: 4}, {Year: 2020, Count: 0}}, "songs", "FR per year")
	bars := data.generateBarValues()
	require.Len(t, bars, 2)
	assert.Equal(t, "2019", bars[0].Label)

	png, err := DrawPlotBar(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestAllZeroBarsStillRender(t *testing.T) {
	data := NewDataYearsForGraph([]models.YearCount{{Year: 2019}, {Year: 2020}}, "songs", "empty years")
	png, err := DrawPlotBar(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = DrawPlotBar(NewDataYearsForGraph(nil, "songs", "nothing"))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHistogram(t *testing.T) {
	h := Histogram("tempo", []float64{0, 1, 2, 3, 4, 10}, 5)
	assert.Equal(t, []float64{2, 2, 1, 0, 1}, h.yValues)
	assert.Equal(t, 10.0, h.xEnd[4])
	assert.Equal(t, "0-2", h.generateBarValues()[0].Label)

	flat := Histogram("mode", []float64{5, 5}, 5)
	assert.Equal(t, []float64{2}, flat.yValues)

	narrow := Histogram("energy", []float64{0, 0.5, 1}, 4)
	assert.Equal(t, "0.00-0.25", narrow.generateBarValues()[0].Label)

	png, err := DrawPlotBar(h)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	assert.Empty(t, Histogram("x", nil, 5).yValues)
}

func TestDrawTrendLines(t *testing.T) {
	points := []analysis.TrendPoint{
		{Year: 2019, Means: map[string]float64{"tempo": 120, "energy": 0.5}},
		{Year: 2020, Means: map[string]float64{"tempo": 124, "energy": 0.6}},
	}
	colors := classify.NewOrdinal(classify.Tableau10, analysis.TrendVariables...)
	series := []*analysis.TrendSeries{
		analysis.Series(points, "tempo"),
		analysis.Series(points, "energy"),
		analysis.Series(points, "mode"),
	}
	png, err := DrawTrendLines(series, colors)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = DrawTrendLines(series[2:], colors)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = DrawTrendLines([]*analysis.TrendSeries{analysis.Series(points[:1], "tempo")}, colors)
	assert.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestDrawGenrePie(t *testing.T) {
	colors := classify.NewOrdinal(classify.Set2)
	png, err := DrawGenrePie(2019, []analysis.KeyCount{{Key: "pop", Count: 3}, {Key: "rock", Count: 1}}, colors)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = DrawGenrePie(2019, []analysis.KeyCount{{Key: "pop"}}, colors)
	assert.ErrorIs(t, err, ErrNoData)
}
