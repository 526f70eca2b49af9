package analysis

import (
	"sort"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/geo"
	"github.com/pivolan/spotviz/grouping"
)

// YearFunc picks the year parser of a dataset.
func YearFunc(ds config.Dataset) grouping.YearFunc {
	if ds.YearFormat == config.YearDecimal {
		return grouping.YearFromDecimal
	}
	return grouping.YearFromDate
}

// YearTable groups a dataset by (year, key) after dropping its skip keys.
func YearTable(rows []models.Row, ds config.Dataset) *grouping.YearTable {
	for _, skip := range ds.SkipKeys {
		rows = grouping.Exclude(rows, ds.KeyField, skip)
	}
	return grouping.GroupByYear(rows, ds.YearField, ds.KeyField, YearFunc(ds))
}

// CountryCells derives the fill of every feature for year. Features that do
// not resolve to a country keep count 0 and the classification of 0.
func CountryCells(features []geo.Feature, table *grouping.YearTable, year int, c classify.Classifier) []models.CountryCell {
	cells := make([]models.CountryCell, 0, len(features))
	for _, f := range features {
		cell := models.CountryCell{FeatureID: f.ID, Alpha2: f.Country.Alpha2, Name: f.Country.Name}
		if !f.Country.IsUnknown() {
			cell.Count = table.Count(year, f.Country.Alpha2)
		}
		cell.Color = c.Classify(float64(cell.Count))
		cells = append(cells, cell)
	}
	return cells
}

// WorldFeatures stands in for a geography document: one feature per known country.
func WorldFeatures() []geo.Feature {
	codes := geo.All()
	out := make([]geo.Feature, 0, len(codes))
	for _, c := range codes {
		out = append(out, geo.Feature{ID: c.ID, Country: c})
	}
	return out
}

// YearsWithData lists, ascending, the years in which key has at least one row.
func YearsWithData(table *grouping.YearTable, key string) []int {
	var years []int
	for _, y := range table.Years {
		if table.Count(y, key) > 0 {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// YearCounts is the per-year row count of key over every year of the table.
func YearCounts(table *grouping.YearTable, key string) []models.YearCount {
	years := append([]int(nil), table.Years...)
	sort.Ints(years)
	out := make([]models.YearCount, 0, len(years))
	for _, y := range years {
		out = append(out, models.YearCount{Year: y, Count: table.Count(y, key)})
	}
	return out
}

// CountrySongs lists the songs of (year, country). Chart tables are ranked by
// daily_rank ascending, worldwide lists by popularity descending.
func CountrySongs(table *grouping.YearTable, year int, alpha2 string, kind models.DatasetKind) []models.Song {
	bucket := table.Bucket(year, alpha2)
	songs := make([]models.Song, 0, len(bucket))
	for _, r := range bucket {
		songs = append(songs, models.SongFromRow(r))
	}
	if kind == models.KindWorldwide {
		sort.SliceStable(songs, func(i, j int) bool { return songs[i].Popularity > songs[j].Popularity })
	} else {
		sort.SliceStable(songs, func(i, j int) bool { return songs[i].DailyRank < songs[j].DailyRank })
	}
	return songs
}

// CountryTotals is the number of songs of every key in year, busiest first.
func CountryTotals(table *grouping.YearTable, year int) []KeyCount {
	var out []KeyCount
	for key, rows := range table.Cells[year] {
		out = append(out, KeyCount{Key: key, Count: len(rows)})
	}
	sortKeyCounts(out)
	return out
}

// KeyCount is one (category, count) pair.
type KeyCount struct {
	Key   string
	Count int
}

func sortKeyCounts(kc []KeyCount) {
	sort.Slice(kc, func(i, j int) bool {
		if kc[i].Count != kc[j].Count {
			return kc[i].Count > kc[j].Count
		}
		return kc[i].Key < kc[j].Key
	})
}
