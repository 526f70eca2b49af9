package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/geo"
)

func TestAnalyzeNumbers(t *testing.T) {
	assert.Nil(t, AnalyzeNumbers("x", nil))

	s := AnalyzeNumbers("tempo", []float64{1, 2, 3, 4, 100})
	require.NotNil(t, s)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 22.0, s.Average)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 2.0, s.Quantiles[0.25])
	assert.Equal(t, 4.0, s.Quantiles[0.75])
	assert.Equal(t, 2.0, s.IQR)
	assert.Equal(t, 1, s.Outliers)
}

func TestSummarySkipsTextFields(t *testing.T) {
	rows := []models.Row{{"energy": 0.5, "name": "a"}, {"energy": 0.7, "name": "b"}}
	stats := Summary(rows, []string{"energy", "name", "missing"})
	require.Len(t, stats, 1)
	assert.Equal(t, "energy", stats[0].Field)
	assert.Equal(t, 0.6, stats[0].Average)
}

func TestMapView(t *testing.T) {
	cat := config.DefaultCatalog()
	best, err := cat.Get("bestsongs")
	require.NoError(t, err)

	rows := []models.Row{
		{"country": "FR", "year": 2010.0, "name": "low", "popularity": 40.0},
		{"country": "FR", "year": 2010.0, "name": "high", "popularity": 90.0},
		{"country": "FR", "year": 2012.0, "name": "later", "popularity": 10.0},
		{"country": "UNKNOWN", "year": 2010.0, "name": "nowhere"},
		{"country": "US", "year": "2010.0", "name": "us"},
	}
	table := YearTable(rows, best)
	assert.Equal(t, 0, table.Count(2010, "UNKNOWN"))
	assert.Equal(t, 2, table.Count(2010, "FR"))
	assert.Equal(t, []int{2010, 2012}, YearsWithData(table, "FR"))
	assert.Equal(t, []models.YearCount{{Year: 2010, Count: 1}, {Year: 2012, Count: 0}}, YearCounts(table, "US"))

	songs := CountrySongs(table, 2010, "FR", best.Kind)
	require.Len(t, songs, 2)
	assert.Equal(t, "high", songs[0].Name)

	c, err := classify.SongCountConfig().Build()
	require.NoError(t, err)
	features := []geo.Feature{
		{ID: 250, Country: geo.Resolve(250)},
		{ID: 840, Country: geo.Resolve(840)},
		{ID: -99, Country: geo.Unknown},
	}
	cells := CountryCells(features, table, 2010, c)
	require.Len(t, cells, 3)
	assert.Equal(t, 2, cells[0].Count)
	assert.Equal(t, models.ColorToken("#ead9ff"), cells[0].Color)
	assert.Equal(t, models.ColorToken("#f5edff"), cells[1].Color)
	assert.Equal(t, 0, cells[2].Count)
	assert.Equal(t, models.ColorToken("#ffffff"), cells[2].Color)

	totals := CountryTotals(table, 2010)
	assert.Equal(t, []KeyCount{{"FR", 2}, {"US", 1}}, totals)
	assert.NotEmpty(t, WorldFeatures())
}

func TestCountrySongsByRank(t *testing.T) {
	cat := config.DefaultCatalog()
	top, err := cat.Get("top50")
	require.NoError(t, err)
	rows := []models.Row{
		{"country": "US", "snapshot_date": "2024-01-01", "name": "third", "daily_rank": 3.0},
		{"country": "US", "snapshot_date": "2024-01-01", "name": "first", "daily_rank": 1.0},
	}
	songs := CountrySongs(YearTable(rows, top), 2024, "US", top.Kind)
	require.Len(t, songs, 2)
	assert.Equal(t, "first", songs[0].Name)
}

func clusteredRows() []models.Row {
	return []models.Row{
		{"cluster_name": "Hip-Hop / Urban", "energy": 0.8, "speechiness": 0.4, "tempo": 100.0,
			"pca_x": 1.0, "pca_y": 2.0, "name": "a", "album_release_date": "2019-03-01"},
		{"cluster_name": "Hip-Hop / Urban", "energy": 0.6, "speechiness": 0.2, "tempo": 120.0,
			"pca_x": 1.5, "pca_y": 2.5, "name": "b", "album_release_date": "2019"},
		{"cluster_name": "Mellow & Acoustic", "energy": 0.2, "speechiness": 0.1, "tempo": 80.0,
			"pca_x": -1.0, "pca_y": 0.0, "name": "c", "album_release_date": "2023-01-01"},
		{"cluster_name": "Mellow & Acoustic", "energy": 0.4, "speechiness": 0.1, "tempo": 90.0,
			"name": "no pca", "album_release_date": "2010-01-01"},
	}
}

func TestClusterHeatmap(t *testing.T) {
	p := Profile(clusteredRows())
	assert.Equal(t, []string{"Hip-Hop / Urban", "Mellow & Acoustic"}, p.Clusters)
	assert.InDelta(t, 0.7, p.Means["Hip-Hop / Urban"]["energy"], 1e-9)
	assert.InDelta(t, 0.3, p.Means["Mellow & Acoustic"]["energy"], 1e-9)

	cells, err := p.Heatmap()
	require.NoError(t, err)
	// energy, speechiness and tempo for both clusters
	require.Len(t, cells, 6)

	byKey := map[string]models.HeatCell{}
	for _, c := range cells {
		byKey[c.Cluster+"|"+c.Feature] = c
	}
	hot := byKey["Hip-Hop / Urban|energy"]
	assert.Equal(t, classify.HeatEnd, hot.Color)
	assert.Equal(t, models.ColorToken("#ffffff"), hot.TextColor)
	assert.InDelta(t, 1.0, hot.Fraction, 1e-9)
	cold := byKey["Mellow & Acoustic|tempo"]
	assert.Equal(t, classify.HeatStart, cold.Color)
	assert.Equal(t, models.ColorToken("#000000"), cold.TextColor)

	radar, ok := p.Radar("Hip-Hop / Urban")
	require.True(t, ok)
	assert.Len(t, radar, len(RadarFeatures))
	_, ok = p.Radar("Polka")
	assert.False(t, ok)
}

func TestScatterAndStream(t *testing.T) {
	palette := classify.ClusterPalette()
	points := Scatter(clusteredRows(), palette)
	require.Len(t, points, 3)
	assert.Equal(t, models.ColorToken("#00d2d3"), points[0].Color)

	stream := Stream(clusteredRows(), palette)
	require.Len(t, stream, 2, "2010 is outside the stream range")
	assert.Equal(t, 2019, stream[0].Year)
	assert.Equal(t, 2, stream[0].Counts["Hip-Hop / Urban"])
	assert.Equal(t, 0, stream[0].Counts["High Energy / Fast"])
	assert.Equal(t, 2023, stream[1].Year)
	assert.Len(t, stream[1].Counts, 5)
}

func TestTrendsDeduplicateSongs(t *testing.T) {
	rows := []models.Row{
		{"spotify_id": "a", "album_release_date": "2020-01-01", "tempo": 100.0},
		{"spotify_id": "a", "album_release_date": "2020-01-01", "tempo": 100.0},
		{"spotify_id": "a", "album_release_date": "2020-01-01", "tempo": 100.0},
		{"spotify_id": "b", "album_release_date": "2020-06-01", "tempo": 160.0},
		{"spotify_id": "c", "album_release_date": "2018-06-01", "tempo": 90.0, "energy": 0.5},
		{"album_release_date": "2018-06-01", "tempo": 500.0},
	}
	points := Trends(rows)
	require.Len(t, points, 2)
	assert.Equal(t, 2018, points[0].Year)
	assert.Equal(t, 130.0, points[1].Means["tempo"])

	s := Series(points, "energy")
	assert.Equal(t, 1, s.RowCount)
	assert.Equal(t, 2018, s.StartYear)
	assert.Equal(t, "energy: 1 points, 2018 to 2018", s.Description())
	assert.Equal(t, "mode: no data", Series(points, "mode").Description())
}

func TestGenreCounts(t *testing.T) {
	cat := config.DefaultCatalog()
	genres, err := cat.Get("genres")
	require.NoError(t, err)
	rows := []models.Row{
		{"genre": "pop, Dance/Electronic", "year": 2019.0},
		{"genre": "pop", "year": "2019"},
		{"genre": "set()", "year": 2019.0},
		{"genre": "rock", "year": 2018.0},
		{"genre": "hip hop", "year": "n/a"},
	}
	counts := GenreCounts(rows, genres, 2019)
	assert.Equal(t, []KeyCount{{"pop", 2}, {"Dance/Electronic", 1}}, counts)
	assert.Equal(t, []string{"a", "b"}, SplitGenres(" a ,, b"))
}
