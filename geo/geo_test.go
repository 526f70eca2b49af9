package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fr := Resolve(250)
	assert.Equal(t, "FR", fr.Alpha2)
	assert.Equal(t, "France", fr.Name)
	assert.False(t, fr.IsUnknown())

	u := Resolve(99999)
	assert.True(t, u.IsUnknown())
	assert.Equal(t, UnknownCode, u.Alpha2)
	assert.Equal(t, 99999, u.ID)

	assert.Equal(t, 840, ByAlpha2("US").ID)
	assert.True(t, ByAlpha2("us").IsUnknown())
}

func TestTableIsInjective(t *testing.T) {
	seen := map[string]int{}
	for _, c := range countries {
		prev, dup := seen[c.Alpha2]
		assert.False(t, dup, "%s used by %d and %d", c.Alpha2, prev, c.ID)
		seen[c.Alpha2] = c.ID
	}
}

func TestLoadFeatures(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"250","properties":{"name":"France"},"geometry":{"type":"Point","coordinates":[2,46]}},
		{"type":"Feature","id":840,"properties":{},"geometry":{"type":"Point","coordinates":[-100,40]}},
		{"type":"Feature","properties":{"iso_n3":"004"},"geometry":{"type":"Point","coordinates":[66,33]}},
		{"type":"Feature","id":"-99","properties":{"name":"N. Cyprus"},"geometry":{"type":"Point","coordinates":[33,35]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}
	]}`
	features, err := LoadFeatures(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, features, 5)

	assert.Equal(t, "FR", features[0].Country.Alpha2)
	assert.Equal(t, "US", features[1].Country.Alpha2)
	assert.Equal(t, "AF", features[2].Country.Alpha2)
	assert.True(t, features[3].Country.IsUnknown())
	assert.True(t, features[4].Country.IsUnknown())
}

func TestLoadFeaturesRejectsGarbage(t *testing.T) {
	_, err := LoadFeatures(strings.NewReader("not json"))
	assert.Error(t, err)
}
