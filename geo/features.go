package geo

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// Feature is a boundary of the geography document reduced to what the views need.
type Feature struct {
	ID      int
	Country Country
}

// LoadFeatures reads a GeoJSON FeatureCollection and resolves every feature id.
// Features without a usable numeric id resolve to the Unknown sentinel.
func LoadFeatures(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geography: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geography: %w", err)
	}
	out := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		id, ok := featureID(f)
		if !ok {
			out = append(out, Feature{ID: -1, Country: Unknown})
			continue
		}
		out = append(out, Feature{ID: id, Country: Resolve(id)})
	}
	return out, nil
}

// featureID accepts ids written as numbers, numeric strings ("004"), or an
// "iso_n3" / "id" property when the top-level id is missing.
func featureID(f *geojson.Feature) (int, bool) {
	if id, ok := parseID(f.ID); ok {
		return id, true
	}
	for _, key := range []string{"iso_n3", "ISO_N3", "id"} {
		if v, exists := f.Properties[key]; exists {
			if id, ok := parseID(v); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func parseID(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
