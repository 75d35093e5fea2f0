package session

import "sync"

// Store holds the current Session and notifies subscribers on every change.
// Concurrent dispatches are serialized; the last one wins.
type Store struct {
	mu      sync.RWMutex
	current Session
	nextID  int
	subs    map[int]func(Session)
	order   []int
}

// NewStore returns a Store in the Unauthenticated state.
func NewStore() *Store {
	return &Store{subs: map[int]func(Session){}}
}

// Current returns the current snapshot.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	return s.Current().Token
}

// Dispatch applies ev and notifies subscribers with the resulting session.
func (s *Store) Dispatch(ev Event) Session {
	s.mu.Lock()
	next := Transition(s.current, ev)
	s.current = next
	subs := make([]func(Session), 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to receive every new session. The returned func
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
