package viewstate

import (
	"errors"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/geo"
	"github.com/pivolan/spotviz/grouping"
)

var ErrStale = errors.New("load superseded by a newer request")

// Snapshot is a fully derived view: the selection plus what was built for it.
type Snapshot struct {
	State      State
	Table      *grouping.YearTable
	Classifier classify.Classifier
}

// Token identifies one load request.
type Token string

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	latest  Token
}

func NewStore() *Store {
	return &Store{}
}

// Begin registers a load for state and returns its token. Any load started
// earlier becomes stale.
func (s *Store) Begin(state State) Token {
	tok := Token(uuid.NewV4().String())
	s.mu.Lock()
	s.latest = tok
	s.mu.Unlock()
	return tok
}

// Complete installs snap if tok is still the latest request.
func (s *Store) Complete(tok Token, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.latest {
		return ErrStale
	}
	s.current = snap
	s.latest = ""
	return nil
}

// Fail ends the load of tok without touching the current view; the prior
// view is kept. A failure of a superseded request leaves the newer one running.
func (s *Store) Fail(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok == s.latest {
		s.latest = ""
	}
}

// Loading reports whether a request is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest != ""
}

// Current returns the installed snapshot, nil before the first load.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select replaces the selection of the installed snapshot with fn(selection).
// The grouped table covers every year, cluster and feature of the dataset, so
// no load is needed. It reports false when nothing is installed yet.
func (s *Store) Select(fn func(State) State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	next := *s.current
	next.State = fn(next.State)
	s.current = &next
	return true
}


// CountryColor is the fill of one map feature for the current selection.
// Unknown ids and ids without data get the classification of zero.
func (s *Store) CountryColor(featureID int) models.ColorToken {
	snap := s.Current()
	if snap == nil || snap.Classifier == nil {
		return classify.Absent
	}
	return snap.CountryColor(featureID)
}

func (snap *Snapshot) CountryColor(featureID int) models.ColorToken {
	c := geo.Resolve(featureID)
	if c.IsUnknown() {
		return snap.Classifier.Classify(0)
	}
	return snap.Classifier.Classify(float64(snap.Table.Count(snap.State.Year, c.Alpha2)))
}
