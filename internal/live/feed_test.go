package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/repository"
)

type fakeLister struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	err     error
	calls   int
}

func (f *fakeLister) List(_ context.Context, q repository.TicketQuery) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Ticket
	for _, t := range f.tickets {
		if q.OwnerID == nil || *q.OwnerID == t.UserID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeLister) add(t domain.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append([]domain.Ticket{t}, f.tickets...)
}

func TestSnapshotsInitialThenOnChange(t *testing.T) {
	lister := &fakeLister{tickets: []domain.Ticket{{ID: "t1", UserID: "u1"}}}
	dispatcher := events.NewInMemoryDispatcher(nil)
	feed := NewFeed(lister, dispatcher, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sizes []int
	for snap, err := range feed.Subscribe(repository.TicketQuery{}).Snapshots(ctx) {
		require.NoError(t, err)
		sizes = append(sizes, len(snap.Tickets))
		if len(sizes) == 2 {
			break
		}
		lister.add(domain.Ticket{ID: "t2", UserID: "u2"})
		go func() {
			_ = dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: "t2", OwnerID: "u2"})
		}()
	}

	assert.Equal(t, []int{1, 2}, sizes)
	assert.Equal(t, 0, feed.Active())
}

func TestOwnerSubscriptionIgnoresOtherOwners(t *testing.T) {
	lister := &fakeLister{}
	dispatcher := events.NewInMemoryDispatcher(nil)
	feed := NewFeed(lister, dispatcher, nil)
	owner := "u1"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)
	go func() {
		n := 0
		for range feed.Subscribe(repository.TicketQuery{OwnerID: &owner}).Snapshots(ctx) {
			n++
		}
		done <- n
	}()

	require.Eventually(t, func() bool { return feed.Active() == 1 }, time.Second, 10*time.Millisecond)
	_ = dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated, OwnerID: "someone-else"})
	time.Sleep(50 * time.Millisecond)
	cancel()

	assert.Equal(t, 1, <-done)
}

func TestSnapshotsYieldErrorsAndRestart(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	feed := NewFeed(lister, events.NewInMemoryDispatcher(nil), nil)
	sub := feed.Subscribe(repository.TicketQuery{})
	ctx := context.Background()

	for _, err := range sub.Snapshots(ctx) {
		assert.EqualError(t, err, "db down")
		break
	}

	lister.mu.Lock()
	lister.err = nil
	lister.mu.Unlock()

	for snap, err := range sub.Snapshots(ctx) {
		require.NoError(t, err)
		assert.Empty(t, snap.Tickets)
		break
	}
	assert.Equal(t, 2, lister.calls)
}
