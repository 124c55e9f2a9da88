package workspace

import (
	"sync"
	"time"
)

// Reducer turns one state into the next.
type Reducer func(State) (State, error)

// Listener is notified with a copy of every committed state.
type Listener func(State)

// Store holds one session's state and applies reducers one at a time.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	now       func() time.Time
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update applies fn to the current state. A reducer error leaves the state
// untouched. On success the version is bumped and listeners are notified.
func (s *Store) Update(fn Reducer) (State, error) {
	s.mu.Lock()
	next, err := fn(s.state.Clone())
	if err != nil {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, err
	}
	next.Version = s.state.Version + 1
	next.UpdatedAt = s.now().UTC()
	s.state = next

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	committed := next.Clone()
	s.mu.Unlock()

	for _, l := range listeners {
		l(committed.Clone())
	}
	return committed, nil
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
