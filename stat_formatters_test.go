package main

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/domain/models"
)

func TestGenerateTable(t *testing.T) {
	stats := []*analysis.NumberStats{
		analysis.AnalyzeNumbers("tempo", []float64{90, 120, 150}),
		analysis.AnalyzeNumbers("energy", []float64{0.25, 0.75}),
	}
	result := GenerateTable(stats)

	for _, want := range []string{"FIELDNAME", "Q0.25", "OUTLIERS", "tempo", "energy", "120", "0.5"} {
		assert.Contains(t, result, want)
	}
	assert.Less(t, strings.Index(result, "tempo"), strings.Index(result, "energy"))

	md := GenerateTableMarkdown(stats)
	assert.True(t, strings.HasPrefix(md, "| Field |"))
	assert.Contains(t, md, "| tempo |")
}

func TestGenerateCountryTable(t *testing.T) {
	cells := []models.CountryCell{
		{Alpha2: "US", Name: "United States", Count: 1, Color: "#f5edff"},
		{Alpha2: "FR", Name: "France", Count: 3, Color: "#d9c2ff"},
		{Alpha2: "DE", Name: "Germany"},
	}
	result := GenerateCountryTable(2025, cells)
	assert.Contains(t, result, "Songs per country, 2025")
	assert.Contains(t, result, "#d9c2ff")
	assert.NotContains(t, result, "Germany")
	assert.Less(t, strings.Index(result, "France"), strings.Index(result, "United States"))
	assert.Contains(t, result, "4")
}

func TestGenerateSongsTable(t *testing.T) {
	songs := []models.Song{{Name: "high", Artists: "A", Popularity: 90}, {Name: "low", Artists: "B", Popularity: 40}}
	result := GenerateSongsTable("FR", 2010, songs, models.KindWorldwide)
	assert.Contains(t, result, "France 2010")
	assert.Contains(t, result, "POPULARITY")
	assert.Contains(t, result, "90")

	ranked := GenerateSongsTable("US", 2024, []models.Song{{Name: "first", DailyRank: 1}}, models.KindByCountry)
	assert.Contains(t, ranked, "RANK")
}

func TestGenerateClusterAndKeyTables(t *testing.T) {
	p := analysis.Profile([]models.Row{
		{"cluster_name": "Mellow & Acoustic", "energy": 0.25},
	})
	result := GenerateClusterTable(p)
	assert.Contains(t, result, "Mellow & Acoustic")
	assert.Contains(t, result, "0.250")

	genres := GenerateKeyCountTable("Genres 2019", "Genre", []analysis.KeyCount{{Key: "pop", Count: 2}})
	assert.Contains(t, genres, "Genres 2019")
	assert.Contains(t, genres, "pop")
}

func TestGenerateTrendsCSV(t *testing.T) {
	points := []analysis.TrendPoint{
		{Year: 2019, Means: map[string]float64{"tempo": 120.5}},
		{Year: 2020, Means: map[string]float64{"tempo": 124, "energy": 0.6}},
	}
	out, err := GenerateTrendsCSV(points, []string{"tempo", "energy"})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"year", "tempo", "energy"},
		{"2019", "120.5", ""},
		{"2020", "124", "0.6"},
	}, records)
}
