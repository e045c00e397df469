// Package session holds the client-side state of one analysis session.
package session

import (
	"slices"
	"sync"

	"github.com/huangsam/codearchitect/schema"
)

// Listener is notified with a snapshot after every change.
type Listener func(schema.AnalysisSession)

// Store holds the current analysis identifier, status, findings and
// recommendations. It is owned by the page controller and shared by
// reference with the presentation layer.
type Store struct {
	mu        sync.RWMutex
	state     schema.AnalysisSession
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store in the idle state.
func NewStore() *Store {
	return &Store{
		state:     schema.NewIdleSession(),
		listeners: map[int]Listener{},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() schema.AnalysisSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// SetAnalysisID sets the identifier assigned by the backend.
func (s *Store) SetAnalysisID(id string) {
	s.update(func(st *schema.AnalysisSession) { st.AnalysisID = id })
}

// SetStatus sets the session status.
func (s *Store) SetStatus(status schema.Status) {
	s.update(func(st *schema.AnalysisSession) { st.Status = status })
}

// SetFindings replaces the findings.
func (s *Store) SetFindings(findings schema.Findings) {
	s.update(func(st *schema.AnalysisSession) { st.Findings = slices.Clone(findings) })
}

// SetRecommendations replaces the recommendations.
func (s *Store) SetRecommendations(recs []string) {
	s.update(func(st *schema.AnalysisSession) {
		if recs == nil {
			st.Recommendations = []string{}
			return
		}
		st.Recommendations = slices.Clone(recs)
	})
}

// Apply runs several setters as one change, so listeners see a single
// consistent snapshot.
func (s *Store) Apply(fn func(tx *Tx)) {
	s.update(func(st *schema.AnalysisSession) { fn(&Tx{state: st}) })
}

// Reset clears all fields to their initial values.
func (s *Store) Reset() {
	s.update(func(st *schema.AnalysisSession) { *st = schema.NewIdleSession() })
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// update mutates under the lock, then notifies outside it.
func (s *Store) update(fn func(*schema.AnalysisSession)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := copyState(s.state)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Tx exposes the setters inside Store.Apply.
type Tx struct {
	state *schema.AnalysisSession
}

// SetAnalysisID sets the identifier.
func (t *Tx) SetAnalysisID(id string) { t.state.AnalysisID = id }

// SetStatus sets the status.
func (t *Tx) SetStatus(status schema.Status) { t.state.Status = status }

// SetFindings replaces the findings.
func (t *Tx) SetFindings(findings schema.Findings) { t.state.Findings = slices.Clone(findings) }

// SetRecommendations replaces the recommendations.
func (t *Tx) SetRecommendations(recs []string) {
	if recs == nil {
		recs = []string{}
	}
	t.state.Recommendations = slices.Clone(recs)
}

// Status returns the status inside the transaction.
func (t *Tx) Status() schema.Status { return t.state.Status }

func copyState(st schema.AnalysisSession) schema.AnalysisSession {
	out := st
	out.Findings = slices.Clone(st.Findings)
	out.Recommendations = slices.Clone(st.Recommendations)
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out
}
