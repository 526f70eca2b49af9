package classify

import "github.com/pivolan/spotviz/domain/models"

const (
	Present models.ColorToken = "#e3c6ff"
	Absent  models.ColorToken = "#ffffff"

	HeatStart models.ColorToken = "#ffffff"
	HeatEnd   models.ColorToken = "#b30000"

	FallbackColor models.ColorToken = "#cccccc"
)

// SongCountBreakpoints is the nine-level intensity table of the worldwide map.
func SongCountBreakpoints() []Breakpoint {
	return []Breakpoint{
		{Bound: 0, Token: "#ffffff"},
		{Bound: 1, Token: "#f5edff"},
		{Bound: 2, Token: "#ead9ff"},
		{Bound: 4, Token: "#d9c2ff"},
		{Bound: 8, Token: "#c299ff"},
		{Bound: 15, Token: "#a970ff"},
		{Bound: 25, Token: "#9147ff"},
		{Bound: 40, Token: "#7a2ed9"},
	}
}

const SongCountMax models.ColorToken = "#6100cc"

func BinaryConfig() Config {
	return Config{Mode: ModeBinary, Present: Present, Absent: Absent}
}

func SongCountConfig() Config {
	return Config{Mode: ModeGraduated, Breakpoints: SongCountBreakpoints(), Max: SongCountMax}
}

func HeatConfig(domainMin, domainMax float64) Config {
	return Config{Mode: ModeContinuous, Start: HeatStart, End: HeatEnd, DomainMin: domainMin, DomainMax: domainMax}
}

// ClusterPalette is the fixed color of every named cluster.
func ClusterPalette() *Palette {
	return NewPalette(FallbackColor,
		Entry{"Mellow & Acoustic", "#a56de2"},
		Entry{"Happy Pop / Dance", "#1db954"},
		Entry{"Hip-Hop / Urban", "#00d2d3"},
		Entry{"Instrumental / Atmos", "#ff0f0f"},
		Entry{"High Energy / Fast", "#ff9f43"},
	)
}

// ClusterDescriptions are the legend hints of the cluster palette.
var ClusterDescriptions = map[string]string{
	"Mellow & Acoustic":    "Low energy, high acousticness",
	"Happy Pop / Dance":    "High danceability, high valence",
	"Hip-Hop / Urban":      "Very high speechiness",
	"Instrumental / Atmos": "High instrumentalness",
	"High Energy / Fast":   "Fast tempo (>140 BPM) and high energy",
}

// Set2 and Tableau10 are the ordinal schemes of the genre and trend charts.
var (
	Set2 = []models.ColorToken{
		"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
	}
	Tableau10 = []models.ColorToken{
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	}
)
