// Package viewstate holds the current selection of the interactive views and
// the grouped table derived for it.
//
// Loads are asynchronous. Every load is tagged with a token when it starts and
// only the completion carrying the latest token is applied, so a slow fetch of
// an earlier selection can never overwrite a newer one.
package viewstate

// State is an immutable selection. The With* methods return modified copies.
type State struct {
	Dataset  string   `json:"dataset"`
	Year     int      `json:"year"`
	Cluster  string   `json:"cluster,omitempty"`
	Features []string `json:"features,omitempty"`
}

func (s State) WithDataset(key string, year int) State {
	s.Dataset = key
	s.Year = year
	s.Cluster = ""
	return s
}

func (s State) WithYear(year int) State {
	s.Year = year
	return s
}

func (s State) WithCluster(name string) State {
	s.Cluster = name
	return s
}

// WithFeatures replaces the selected trend variables.
func (s State) WithFeatures(features ...string) State {
	s.Features = append([]string(nil), features...)
	return s
}

// ToggleFeature adds or removes one trend variable.
func (s State) ToggleFeature(feature string) State {
	out := make([]string, 0, len(s.Features)+1)
	found := false
	for _, f := range s.Features {
		if f == feature {
			found = true
			continue
		}
		out = append(out, f)
	}
	if !found {
		out = append(out, feature)
	}
	s.Features = out
	return s
}
