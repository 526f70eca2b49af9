package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowAccessors(t *testing.T) {
	r := Row{"country": "US", "empty": "", "energy": "0.4", "rank": 3.0, "bad": "abc"}

	s, ok := r.String("country")
	assert.True(t, ok)
	assert.Equal(t, "US", s)

	_, ok = r.String("empty")
	assert.False(t, ok)
	_, ok = r.String("missing")
	assert.False(t, ok)

	f, ok := r.Float("energy")
	assert.True(t, ok)
	assert.InDelta(t, 0.4, f, 1e-9)

	s, ok = r.String("rank")
	assert.True(t, ok)
	assert.Equal(t, "3", s)

	_, ok = r.Float("bad")
	assert.False(t, ok)
}

func TestSongFromRow(t *testing.T) {
	song := SongFromRow(Row{"spotify_id": "x1", "name": "Song", "artists": "A, B", "daily_rank": "7", "popularity": 88.0})
	assert.Equal(t, Song{SpotifyID: "x1", Name: "Song", Artists: "A, B", DailyRank: 7, Popularity: 88}, song)
}
