package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/uitam/pkg/domain"
)

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Session{}, s.Current())

	var seen []State
	unsubscribe := s.Subscribe(func(sess Session) { seen = append(seen, sess.State) })

	s.Dispatch(Event{Kind: LoginStarted})
	s.Dispatch(Event{Kind: LoginSucceeded, User: &domain.User{ID: 1}, Token: "t"})
	assert.Equal(t, []State{Authenticating, Authenticated}, seen)
	assert.Equal(t, "t", s.Token())

	unsubscribe()
	unsubscribe()
	s.Dispatch(Event{Kind: LoggedOut})
	assert.Len(t, seen, 2)
	assert.Empty(t, s.Token())
}

func TestStore_SubscribersInOrder(t *testing.T) {
	s := NewStore()
	var order []string
	s.Subscribe(func(Session) { order = append(order, "first") })
	unsub := s.Subscribe(func(Session) { order = append(order, "second") })
	s.Subscribe(func(Session) { order = append(order, "third") })
	unsub()

	s.Dispatch(Event{Kind: LoggedOut})
	assert.Equal(t, []string{"first", "third"}, order)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewStore()
	var got Session
	s.Subscribe(func(Session) { got = s.Current() })
	s.Dispatch(Event{Kind: RevalidationStarted})
	assert.Equal(t, Revalidating, got.State)
}

func TestStore_ConcurrentDispatchKeepsInvariant(t *testing.T) {
	s := NewStore()
	user := &domain.User{ID: 1}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Dispatch(Event{Kind: LoginSucceeded, User: user, Token: "t"})
		}()
		go func() {
			defer wg.Done()
			s.Dispatch(Event{Kind: LoggedOut})
		}()
	}
	wg.Wait()

	cur := s.Current()
	require.Contains(t, []State{Authenticated, Unauthenticated}, cur.State)
	assert.Equal(t, cur.State == Authenticated, cur.IsAuthenticated())
}
