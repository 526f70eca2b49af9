// Package charts renders the interactive HTML pages with go-echarts.
package charts

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
)

const (
	width  = "1200px"
	height = "700px"
)

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: width, Height: height})
}

func tokens(colors []models.ColorToken) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = string(c)
	}
	return out
}

// levelOf finds the position of color in levels, 0 when it is not a level.
func levelOf(color models.ColorToken, levels []models.ColorToken) int {
	for i, l := range levels {
		if l == color {
			return i
		}
	}
	return 0
}

// Map renders the world map. Every cell is plotted as the index of its color
// in levels, and the visual map spans exactly those colors, so the page shows
// the same fills as the classifier.
func Map(w io.Writer, title string, cells []models.CountryCell, levels []models.ColorToken) error {
	m := charts.NewMap()
	m.RegisterMapType("world")
	m.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     0,
			Max:     float32(len(levels) - 1),
			InRange: &opts.VisualMapInRange{Color: tokens(levels)},
		}),
	)
	data := make([]opts.MapData, 0, len(cells))
	for _, c := range cells {
		if c.Name == "" || c.Name == "Unknown" {
			continue
		}
		data = append(data, opts.MapData{Name: c.Name, Value: levelOf(c.Color, levels)})
	}
	m.AddSeries("songs", data)
	return m.Render(w)
}

// Heatmap renders the cluster x feature grid colored by per-feature fraction.
func Heatmap(w io.Writer, clusters []string, cells []models.HeatCell) error {
	h := charts.NewHeatMap()
	h.SetGlobalOptions(
		initOpts("Cluster audio profile"),
		charts.WithTitleOpts(opts.Title{Title: "Cluster audio profile"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: analysis.HeatmapFeatures}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: clusters}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     0,
			Max:     1,
			InRange: &opts.VisualMapInRange{Color: []string{string(classify.HeatStart), string(classify.HeatEnd)}},
		}),
	)
	featureIdx := make(map[string]int, len(analysis.HeatmapFeatures))
	for i, f := range analysis.HeatmapFeatures {
		featureIdx[f] = i
	}
	clusterIdx := make(map[string]int, len(clusters))
	for i, c := range clusters {
		clusterIdx[c] = i
	}
	data := make([]opts.HeatMapData, 0, len(cells))
	for _, c := range cells {
		data = append(data, opts.HeatMapData{
			Name:  c.Cluster + " / " + c.Feature,
			Value: [3]interface{}{featureIdx[c.Feature], clusterIdx[c.Cluster], c.Fraction},
		})
	}
	h.AddSeries("mean", data)
	return h.Render(w)
}

// Radar renders the audio profile of the given clusters.
func Radar(w io.Writer, profile *analysis.ClusterProfile, palette *classify.Palette, clusters ...string) error {
	indicators := make([]*opts.Indicator, len(analysis.RadarFeatures))
	for i, f := range analysis.RadarFeatures {
		indicators[i] = &opts.Indicator{Name: f, Min: 0, Max: 1}
	}
	r := charts.NewRadar()
	r.SetGlobalOptions(
		initOpts("Cluster radar"),
		charts.WithTitleOpts(opts.Title{Title: "Cluster radar"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators, Shape: "polygon"}),
	)
	if len(clusters) == 0 {
		clusters = profile.Clusters
	}
	for _, name := range clusters {
		values, ok := profile.Radar(name)
		if !ok {
			continue
		}
		r.AddSeries(name, []opts.RadarData{{Name: name, Value: values}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: string(palette.Color(name))}))
	}
	return r.Render(w)
}

// Scatter renders songs in PCA space, one series per cluster.
func Scatter(w io.Writer, points []analysis.ScatterPoint, palette *classify.Palette) error {
	s := charts.NewScatter()
	s.SetGlobalOptions(
		initOpts("Songs in PCA space"),
		charts.WithTitleOpts(opts.Title{Title: "Songs in PCA space"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "pca_x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "pca_y"}),
	)
	byCluster := make(map[string][]opts.ScatterData)
	var order []string
	for _, p := range points {
		if _, seen := byCluster[p.Cluster]; !seen {
			order = append(order, p.Cluster)
		}
		byCluster[p.Cluster] = append(byCluster[p.Cluster], opts.ScatterData{
			Name:       p.Name + " - " + p.Artists,
			Value:      []float64{p.X, p.Y},
			SymbolSize: 8,
		})
	}
	for _, name := range order {
		s.AddSeries(name, byCluster[name],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: string(palette.Color(name))}))
	}
	return s.Render(w)
}

// Stream renders the per-cluster release-year counts as a theme river.
func Stream(w io.Writer, rows []analysis.StreamRow, palette *classify.Palette) error {
	t := charts.NewThemeRiver()
	t.SetGlobalOptions(
		initOpts("Clusters by release year"),
		charts.WithTitleOpts(opts.Title{Title: "Clusters by release year"}),
		charts.WithSingleAxisOpts(opts.SingleAxis{Type: "time"}),
		charts.WithColorsOpts(opts.Colors(tokens(paletteColors(palette)))),
	)
	var data []opts.ThemeRiverData
	for _, name := range palette.Names() {
		for _, r := range rows {
			data = append(data, opts.ThemeRiverData{
				Date:  strconv.Itoa(r.Year),
				Value: float64(r.Counts[name]),
				Name:  name,
			})
		}
	}
	t.AddSeries("clusters", data)
	return t.Render(w)
}

func paletteColors(p *classify.Palette) []models.ColorToken {
	names := p.Names()
	out := make([]models.ColorToken, len(names))
	for i, n := range names {
		out[i] = p.Color(n)
	}
	return out
}

// Trends renders one line per selected variable over release years.
func Trends(w io.Writer, points []analysis.TrendPoint, variables []string, colors *classify.Ordinal) error {
	l := charts.NewLine()
	l.SetGlobalOptions(
		initOpts("Audio features over time"),
		charts.WithTitleOpts(opts.Title{Title: "Audio features over time"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	years := make([]string, len(points))
	for i, p := range points {
		years[i] = strconv.Itoa(p.Year)
	}
	l.SetXAxis(years)
	for _, v := range variables {
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			if m, ok := p.Means[v]; ok {
				data[i] = opts.LineData{Value: m}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		l.AddSeries(v, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: string(colors.Color(v))}))
	}
	return l.Render(w)
}

// GenrePie renders the genre shares of one year.
func GenrePie(w io.Writer, year int, counts []analysis.KeyCount, colors *classify.Ordinal) error {
	title := "Genres " + strconv.Itoa(year)
	p := charts.NewPie()
	p.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
	)
	data := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		data = append(data, opts.PieData{
			Name:      c.Key,
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: string(colors.Color(c.Key))},
		})
	}
	p.AddSeries("genres", data)
	return p.Render(w)
}
