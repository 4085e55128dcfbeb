package event

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/sectionlist/internal/engine/diff"
)

// Stream fans change events out to registered subscriptions.
//
// Publishing is synchronous: PublishUpdated and PublishReloaded return after
// every matching handler has run, on the caller's goroutine. The collection
// owning the stream publishes from the execution context that closed the
// batch; subscriptions may be attached and detached from any goroutine.
type Stream struct {
	mu   sync.RWMutex
	subs []*subscription // kept in priority order
	byID map[string]*subscription

	source string
	seq    atomic.Uint64

	published atomic.Uint64
	delivered atomic.Uint64
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithSource sets the source name stamped into event metadata.
func WithSource(source string) StreamOption {
	return func(s *Stream) {
		s.source = source
	}
}

// NewStream creates an empty stream with no subscriptions.
func NewStream(opts ...StreamOption) *Stream {
	s := &Stream{
		byID: make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a handler. The handler receives only events published
// after registration; there is no replay.
func (s *Stream) Subscribe(h Handler, opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(uuid.New().String(), h, opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append(s.subs, sub)
	sort.SliceStable(s.subs, func(i, j int) bool {
		return s.subs[i].config.Priority < s.subs[j].config.Priority
	})
	s.byID[sub.ID()] = sub

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function
// handler.
func (s *Stream) SubscribeFunc(fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return s.Subscribe(fn, opts...)
}

// Unsubscribe cancels a subscription and removes it from the stream.
func (s *Stream) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sub.ID()]; !ok {
		return ErrSubscriptionNotFound
	}
	s.removeLocked(sub.ID())
	return nil
}

// removeLocked drops a subscription from both indexes (must hold mu).
func (s *Stream) removeLocked(id string) {
	delete(s.byID, id)
	for i, sub := range s.subs {
		if sub.ID() == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
}

// SubscriberCount returns the number of registered subscriptions, including
// paused ones.
func (s *Stream) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Seq returns the sequence number of the most recently published event.
func (s *Stream) Seq() uint64 {
	return s.seq.Load()
}

// PublishUpdated delivers an incremental change event for one completed
// batch.
func (s *Stream) PublishUpdated(cs *diff.ChangeSet) {
	s.publish(Updated(cs, newMetadata(s.seq.Add(1), s.source)))
}

// PublishReloaded delivers a full-reload event.
func (s *Stream) PublishReloaded() {
	s.publish(Reloaded(newMetadata(s.seq.Add(1), s.source)))
}

// publish fans one event out to all active subscriptions in priority order.
func (s *Stream) publish(ev Event) {
	s.mu.RLock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	s.published.Add(1)

	for _, sub := range subs {
		if !sub.shouldDeliver(ev) {
			continue
		}

		sub.handler.Handle(ev)
		s.delivered.Add(1)

		if sub.config.Once {
			sub.Cancel()
			s.mu.Lock()
			s.removeLocked(sub.ID())
			s.mu.Unlock()
		}
	}
}

// Stats contains stream delivery counters.
type Stats struct {
	// EventsPublished is the total number of events published.
	EventsPublished uint64

	// EventsDelivered is the total number of handler deliveries.
	EventsDelivered uint64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int
}

// Stats returns current stream statistics.
func (s *Stream) Stats() Stats {
	s.mu.RLock()
	active := 0
	for _, sub := range s.subs {
		if sub.IsActive() {
			active++
		}
	}
	s.mu.RUnlock()

	return Stats{
		EventsPublished:   s.published.Load(),
		EventsDelivered:   s.delivered.Load(),
		ActiveSubscribers: active,
	}
}
