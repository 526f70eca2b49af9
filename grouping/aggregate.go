package grouping

import (
	"strconv"
	"strings"

	"github.com/pivolan/spotviz/domain/models"
)

// Count is the bucket size.
func Count(bucket []models.Row) int {
	return len(bucket)
}

// Mean averages field over the bucket. Rows where the field is absent or not
// numeric count neither in the sum nor in the denominator. ok is false when
// no row contributed.
func Mean(bucket []models.Row, field string) (float64, bool) {
	sum := 0.0
	n := 0
	for _, r := range bucket {
		v, ok := r.Float(field)
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Extent returns min and max of values; ok is false for an empty slice.
func Extent(values []float64) (min, max float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

// Normalize coerces the declared numeric fields to float64 in place.
// Values that do not parse are removed from the row so that later aggregates
// treat them as absent. It returns how many values were dropped.
func Normalize(rows []models.Row, numericFields []string) int {
	dropped := 0
	for _, r := range rows {
		for _, f := range numericFields {
			v, exists := r[f]
			if !exists {
				continue
			}
			s, isString := v.(string)
			if !isString {
				continue
			}
			num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				delete(r, f)
				dropped++
				continue
			}
			r[f] = num
		}
	}
	return dropped
}

// Means computes mean of every field for every bucket: key -> field -> mean.
// Fields with no numeric value in a bucket are left out of that bucket's map.
func Means(g *Groups, fields []string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(g.Keys))
	for _, key := range g.Keys {
		byField := make(map[string]float64, len(fields))
		for _, f := range fields {
			if m, ok := Mean(g.Buckets[key], f); ok {
				byField[f] = m
			}
		}
		out[key] = byField
	}
	return out
}

// FieldExtents returns, for every field, the [min, max] of its means across buckets.
func FieldExtents(means map[string]map[string]float64, fields []string) map[string][2]float64 {
	out := make(map[string][2]float64, len(fields))
	for _, f := range fields {
		values := make([]float64, 0, len(means))
		for _, byField := range means {
			if v, ok := byField[f]; ok {
				values = append(values, v)
			}
		}
		if min, max, ok := Extent(values); ok {
			out[f] = [2]float64{min, max}
		}
	}
	return out
}
