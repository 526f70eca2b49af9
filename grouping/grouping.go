// Package grouping partitions dataset rows into buckets keyed by one or two
// categorical fields and derives per-bucket aggregates.
//
// Rows that miss a selector field are not errors: they are dropped from the
// result and counted in Skipped, so that Members()+Skipped always equals the
// number of input rows.
package grouping

import (
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/spotviz/domain/models"
)

// Groups is the single-dimension result: key -> rows.
// Keys keeps first-seen order, rows inside a bucket keep input order.
type Groups struct {
	Field   string
	Keys    []string
	Buckets map[string][]models.Row
	Skipped int
}

// GroupBy buckets rows by the string value of field.
func GroupBy(rows []models.Row, field string) *Groups {
	g := &Groups{
		Field:   field,
		Buckets: make(map[string][]models.Row),
	}
	for _, row := range rows {
		key, ok := row.String(field)
		if !ok {
			g.Skipped++
			continue
		}
		if _, exists := g.Buckets[key]; !exists {
			g.Keys = append(g.Keys, key)
		}
		g.Buckets[key] = append(g.Buckets[key], row)
	}
	return g
}

// Members returns how many rows landed in any bucket.
func (g *Groups) Members() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b)
	}
	return n
}

// Bucket returns the rows for key (nil when absent).
func (g *Groups) Bucket(key string) []models.Row {
	return g.Buckets[key]
}

// YearFunc extracts an integer year from a raw field value.
type YearFunc func(raw string) (int, bool)

// YearFromDate takes the integer prefix before the first '-' ("2023-05-01" -> 2023).
func YearFromDate(raw string) (int, bool) {
	prefix := raw
	if i := strings.Index(raw, "-"); i >= 0 {
		prefix = raw[:i]
	}
	year, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, false
	}
	return year, true
}

// YearFromDecimal parses a decimal year and truncates it ("2000.0" -> 2000).
// NaN, infinities and values outside the int32 range are not years.
func YearFromDecimal(raw string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// YearTable is the two-dimension result: year -> key -> rows.
type YearTable struct {
	YearField string
	KeyField  string
	Years     []int
	Cells     map[int]map[string][]models.Row
	Skipped   int
}

// GroupByYear buckets rows by (year, key). Rows missing either field, or whose
// year cannot be parsed, are skipped.
func GroupByYear(rows []models.Row, yearField, keyField string, yearOf YearFunc) *YearTable {
	t := &YearTable{
		YearField: yearField,
		KeyField:  keyField,
		Cells:     make(map[int]map[string][]models.Row),
	}
	for _, row := range rows {
		key, ok := row.String(keyField)
		if !ok {
			t.Skipped++
			continue
		}
		raw, ok := row.String(yearField)
		if !ok {
			t.Skipped++
			continue
		}
		year, ok := yearOf(raw)
		if !ok {
			t.Skipped++
			continue
		}
		byKey, exists := t.Cells[year]
		if !exists {
			byKey = make(map[string][]models.Row)
			t.Cells[year] = byKey
			t.Years = append(t.Years, year)
		}
		byKey[key] = append(byKey[key], row)
	}
	return t
}

// Members returns how many rows landed in any cell.
func (t *YearTable) Members() int {
	n := 0
	for _, byKey := range t.Cells {
		for _, b := range byKey {
			n += len(b)
		}
	}
	return n
}

// Bucket returns the rows of (year, key); nil when absent.
func (t *YearTable) Bucket(year int, key string) []models.Row {
	if t == nil {
		return nil
	}
	return t.Cells[year][key]
}

// Count is the song count of (year, key), 0 when there is no bucket.
func (t *YearTable) Count(year int, key string) int {
	return Count(t.Bucket(year, key))
}

// KeysForYear lists the keys present in a year.
func (t *YearTable) KeysForYear(year int) map[string]bool {
	keys := make(map[string]bool)
	if t == nil {
		return keys
	}
	for k := range t.Cells[year] {
		keys[k] = true
	}
	return keys
}

// Exclude returns rows whose field differs from value. Used by datasets that
// carry a placeholder key such as country "UNKNOWN".
func Exclude(rows []models.Row, field, value string) []models.Row {
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.String(field); ok && v == value {
			continue
		}
		out = append(out, r)
	}
	return out
}
