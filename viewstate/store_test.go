package viewstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/grouping"
)

func snapshot(t *testing.T, state State, rows []models.Row) *Snapshot {
	t.Helper()
	c, err := classify.SongCountConfig().Build()
	require.NoError(t, err)
	return &Snapshot{
		State:      state,
		Table:      grouping.GroupByYear(rows, "snapshot_date", "country", grouping.YearFromDate),
		Classifier: c,
	}
}

func TestStateIsImmutable(t *testing.T) {
	base := State{Dataset: "top50", Year: 2025, Cluster: "Hip-Hop / Urban"}
	next := base.WithDataset("bestsongs", 2022)
	assert.Equal(t, "top50", base.Dataset)
	assert.Equal(t, "bestsongs", next.Dataset)
	assert.Empty(t, next.Cluster)

	features := []string{"tempo"}
	withF := base.WithFeatures(features...)
	features[0] = "energy"
	assert.Equal(t, []string{"tempo"}, withF.Features)

	toggled := withF.ToggleFeature("valence").ToggleFeature("tempo")
	assert.Equal(t, []string{"valence"}, toggled.Features)
	assert.Equal(t, []string{"tempo"}, withF.Features)
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	s := NewStore()
	first := s.Begin(State{Dataset: "top50", Year: 2025})
	second := s.Begin(State{Dataset: "bestsongs", Year: 2022})
	assert.NotEqual(t, first, second)
	assert.True(t, s.Loading())

	require.NoError(t, s.Complete(second, snapshot(t, State{Dataset: "bestsongs", Year: 2022}, nil)))
	err := s.Complete(first, snapshot(t, State{Dataset: "top50", Year: 2025}, nil))
	assert.ErrorIs(t, err, ErrStale)

	assert.Equal(t, "bestsongs", s.Current().State.Dataset)
	assert.False(t, s.Loading())
}

func TestFailKeepsPreviousView(t *testing.T) {
	s := NewStore()
	tok := s.Begin(State{Dataset: "top50", Year: 2025})
	require.NoError(t, s.Complete(tok, snapshot(t, State{Dataset: "top50", Year: 2025}, nil)))

	tok = s.Begin(State{Dataset: "bestsongs", Year: 2022})
	s.Fail(tok)
	assert.Equal(t, "top50", s.Current().State.Dataset)
	assert.False(t, s.Loading())
}

func TestSupersededFailureKeepsNewerLoad(t *testing.T) {
	s := NewStore()
	old := s.Begin(State{Dataset: "bestsongs", Year: 2022})
	s.Begin(State{Dataset: "top50", Year: 2025})
	s.Fail(old)
	assert.True(t, s.Loading())
}

func TestSelectKeepsTable(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Select(func(st State) State { return st.WithCluster("Polka") }))

	state := State{Dataset: "clustered", Year: 2020}
	tok := s.Begin(state)
	snap := snapshot(t, state, nil)
	require.NoError(t, s.Complete(tok, snap))

	require.True(t, s.Select(func(st State) State {
		return st.WithCluster("Hip-Hop / Urban").WithFeatures("tempo", "energy").ToggleFeature("tempo")
	}))
	cur := s.Current()
	assert.Equal(t, "Hip-Hop / Urban", cur.State.Cluster)
	assert.Equal(t, []string{"energy"}, cur.State.Features)
	assert.Same(t, snap.Table, cur.Table)
	assert.Empty(t, snap.State.Cluster, "the installed snapshot is replaced, not mutated")
}

func TestCountryColor(t *testing.T) {
	rows := []models.Row{
		{"country": "FR", "snapshot_date": "2024-01-01"},
		{"country": "FR", "snapshot_date": "2024-02-01"},
		{"country": "FR", "snapshot_date": "2024-03-01"},
		{"country": "US", "snapshot_date": "2023-03-01"},
	}
	s := NewStore()
	assert.Equal(t, classify.Absent, s.CountryColor(250), "no view yet")

	tok := s.Begin(State{Dataset: "top50", Year: 2024})
	require.NoError(t, s.Complete(tok, snapshot(t, State{Dataset: "top50", Year: 2024}, rows)))

	assert.Equal(t, models.ColorToken("#d9c2ff"), s.CountryColor(250))
	assert.Equal(t, models.ColorToken("#ffffff"), s.CountryColor(840))
	assert.Equal(t, models.ColorToken("#ffffff"), s.CountryColor(-99))

	require.True(t, s.Select(func(st State) State { return st.WithYear(2023) }))
	assert.Equal(t, models.ColorToken("#f5edff"), s.CountryColor(840))
}

func TestConcurrentLoads(t *testing.T) {
	s := NewStore()
	tokens := make([]Token, 20)
	snaps := make([]*Snapshot, 20)
	for i := range tokens {
		state := State{Dataset: "top50", Year: 2000 + i}
		snaps[i] = snapshot(t, state, nil)
		tokens[i] = s.Begin(state)
	}

	var wg sync.WaitGroup
	applied := make(chan Token, len(tokens))
	for i := range tokens {
		wg.Add(1)
		go func(tok Token, snap *Snapshot) {
			defer wg.Done()
			if s.Complete(tok, snap) == nil {
				applied <- tok
			}
		}(tokens[i], snaps[i])
	}
	wg.Wait()
	close(applied)

	n := 0
	for range applied {
		n++
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 2019, s.Current().State.Year)
}
