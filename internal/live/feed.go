// Package live turns ticket change events into a stream of full ticket snapshots.
package live

import (
	"context"
	"iter"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/repository"
)

// Lister is the read side of the ticket store.
type Lister interface {
	List(ctx context.Context, query repository.TicketQuery) ([]domain.Ticket, error)
}

// Snapshot is the full result of a query at one moment.
type Snapshot struct {
	Tickets []domain.Ticket
	At      time.Time
}

// Feed fans ticket events out to subscriptions.
type Feed struct {
	lister Lister
	logger *zap.Logger

	mu       sync.Mutex
	next     uint64
	watchers map[uint64]*watcher
}

type watcher struct {
	query  repository.TicketQuery
	notify chan struct{}
}

// NewFeed registers the feed on dispatcher.
func NewFeed(lister Lister, dispatcher events.Dispatcher, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Feed{
		lister:   lister,
		logger:   logger,
		watchers: make(map[uint64]*watcher),
	}
	dispatcher.SubscribeAll(f.handle)
	return f
}

// Active is the number of snapshot loops currently running.
func (f *Feed) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

func (f *Feed) handle(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers {
		if w.query.OwnerID != nil && *w.query.OwnerID != event.OwnerID {
			continue
		}
		// one pending signal is enough, the next snapshot is a full re-read
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *Feed) watch(query repository.TicketQuery) (<-chan struct{}, func()) {
	w := &watcher{query: query, notify: make(chan struct{}, 1)}

	f.mu.Lock()
	id := f.next
	f.next++
	f.watchers[id] = w
	f.mu.Unlock()

	return w.notify, func() {
		f.mu.Lock()
		delete(f.watchers, id)
		f.mu.Unlock()
	}
}

// Subscription is a query that can be watched any number of times.
type Subscription struct {
	feed  *Feed
	query repository.TicketQuery
}

// Subscribe returns a subscription for query.
func (f *Feed) Subscribe(query repository.TicketQuery) *Subscription {
	return &Subscription{feed: f, query: query}
}

// Snapshots yields the current snapshot, then a new one after every relevant change,
// until ctx is done or the caller stops ranging. A failed read is yielded as an error
// and the loop keeps waiting for the next change.
func (s *Subscription) Snapshots(ctx context.Context) iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		changed, stop := s.feed.watch(s.query)
		defer stop()

		s.feed.logger.Debug("snapshot loop started", zap.String("query", s.query.Key()))
		defer s.feed.logger.Debug("snapshot loop stopped", zap.String("query", s.query.Key()))

		for {
			tickets, err := s.feed.lister.List(ctx, s.query)
			if ctx.Err() != nil {
				return
			}
			var cont bool
			if err != nil {
				cont = yield(Snapshot{}, err)
			} else {
				cont = yield(Snapshot{Tickets: tickets, At: time.Now()}, nil)
			}
			if !cont {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-changed:
			}
		}
	}
}
