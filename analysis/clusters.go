package analysis

import (
	"sort"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/grouping"
)

const ClusterField = "cluster_name"

var (
	// HeatmapFeatures are the columns of the cluster heatmap.
	HeatmapFeatures = []string{
		"danceability", "energy", "valence", "acousticness", "speechiness",
		"instrumentalness", "liveness", "loudness", "tempo",
	}
	// RadarFeatures are the 0..1 audio features of the cluster radar.
	RadarFeatures = []string{"danceability", "energy", "valence", "acousticness", "speechiness"}
)

// StreamYears bounds the release years of the cluster streamgraph.
const (
	StreamFrom = 2018
	StreamTo   = 2024
)

// ClusterProfile is the per-cluster mean of the heatmap features.
type ClusterProfile struct {
	Clusters []string // sorted
	Means    map[string]map[string]float64
	Extents  map[string][2]float64
}

// Profile groups rows by cluster and averages every heatmap feature.
// Rows must have been normalized so the features are numeric.
func Profile(rows []models.Row) *ClusterProfile {
	g := grouping.GroupBy(rows, ClusterField)
	clusters := append([]string(nil), g.Keys...)
	sort.Strings(clusters)
	means := grouping.Means(g, HeatmapFeatures)
	return &ClusterProfile{
		Clusters: clusters,
		Means:    means,
		Extents:  grouping.FieldExtents(means, HeatmapFeatures),
	}
}

// Heatmap builds one cell per (cluster, feature). Each feature is colored over
// its own extent across clusters.
func (p *ClusterProfile) Heatmap() ([]models.HeatCell, error) {
	classifiers := make(map[string]*classify.Continuous, len(HeatmapFeatures))
	for _, f := range HeatmapFeatures {
		ext, ok := p.Extents[f]
		if !ok {
			continue
		}
		c, err := classify.NewContinuous(classify.HeatStart, classify.HeatEnd, ext[0], ext[1])
		if err != nil {
			return nil, err
		}
		classifiers[f] = c
	}

	var cells []models.HeatCell
	for _, cluster := range p.Clusters {
		for _, f := range HeatmapFeatures {
			v, ok := p.Means[cluster][f]
			c := classifiers[f]
			if !ok || c == nil {
				continue
			}
			color := c.Classify(v)
			cells = append(cells, models.HeatCell{
				Cluster:   cluster,
				Feature:   f,
				Value:     v,
				Fraction:  c.Fraction(v),
				Color:     color,
				TextColor: classify.TextColor(color),
			})
		}
	}
	return cells, nil
}

// Radar returns the radar values of cluster in RadarFeatures order; ok is
// false for an unknown cluster.
func (p *ClusterProfile) Radar(cluster string) ([]float64, bool) {
	means, ok := p.Means[cluster]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(RadarFeatures))
	for i, f := range RadarFeatures {
		out[i] = means[f]
	}
	return out, true
}

// ScatterPoint is one song in PCA space.
type ScatterPoint struct {
	X, Y    float64
	Cluster string
	Name    string
	Artists string
	Color   models.ColorToken
}

// Scatter projects the rows with numeric pca_x and pca_y.
func Scatter(rows []models.Row, palette *classify.Palette) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(rows))
	for _, r := range rows {
		x, okX := r.Float("pca_x")
		y, okY := r.Float("pca_y")
		if !okX || !okY {
			continue
		}
		p := ScatterPoint{X: x, Y: y}
		p.Cluster, _ = r.String(ClusterField)
		p.Name, _ = r.String("name")
		p.Artists, _ = r.String("artists")
		p.Color = palette.Color(p.Cluster)
		out = append(out, p)
	}
	return out
}

// StreamRow is the count of songs per cluster released in one year.
type StreamRow struct {
	Year   int
	Counts map[string]int
}

// Stream counts songs per album release year and cluster for the years
// StreamFrom..StreamTo that have data. Every palette cluster gets a count,
// zero included.
func Stream(rows []models.Row, palette *classify.Palette) []StreamRow {
	table := grouping.GroupByYear(rows, "album_release_date", ClusterField, grouping.YearFromDate)
	years := append([]int(nil), table.Years...)
	sort.Ints(years)

	var out []StreamRow
	for _, y := range years {
		if y < StreamFrom || y > StreamTo {
			continue
		}
		row := StreamRow{Year: y, Counts: make(map[string]int)}
		for _, name := range palette.Names() {
			row.Counts[name] = table.Count(y, name)
		}
		out = append(out, row)
	}
	return out
}
