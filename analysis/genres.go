package analysis

import (
	"strings"

	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/domain/models"
)

const (
	GenreField = "genre"
	// NoGenre is the placeholder of songs without a genre.
	NoGenre = "set()"
)

// SplitGenres splits a comma separated genre cell and trims every entry.
func SplitGenres(cell string) []string {
	var out []string
	for _, g := range strings.Split(cell, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// GenreCounts counts songs per genre for year. A song with several genres
// counts once in each of them.
func GenreCounts(rows []models.Row, ds config.Dataset, year int) []KeyCount {
	yearOf := YearFunc(ds)
	counts := make(map[string]int)
	for _, r := range rows {
		cell, ok := r.String(GenreField)
		if !ok || cell == NoGenre {
			continue
		}
		raw, ok := r.String(ds.YearField)
		if !ok {
			continue
		}
		if y, ok := yearOf(raw); !ok || y != year {
			continue
		}
		for _, g := range SplitGenres(cell) {
			counts[g]++
		}
	}
	out := make([]KeyCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, KeyCount{Key: g, Count: n})
	}
	sortKeyCounts(out)
	return out
}
