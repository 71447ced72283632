package session

import (
	"log/slog"
	"sync"

	"github.com/lysyi3m/news-feed/app/feed"
)

type EventKind string

const (
	EventArticlesUpdated EventKind = "articles_updated"
	EventRefreshFailed   EventKind = "refresh_failed"
	EventSortChanged     EventKind = "sort_changed"
	EventEndpointChanged EventKind = "endpoint_changed"
)

type Event struct {
	Kind     EventKind
	Articles []feed.Article // set for articles_updated and sort_changed
	Policy   feed.SortPolicy
	Endpoint string // set for endpoint_changed
	Err      error  // set for refresh_failed
}

const subscriberBuffer = 16

type observers struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func newObservers() *observers {
	return &observers{subs: make(map[int]chan Event)}
}

func (o *observers) subscribe() (<-chan Event, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan Event, subscriberBuffer)
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

// publish never blocks; a subscriber with a full buffer misses the event.
func (o *observers) publish(event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for id, ch := range o.subs {
		select {
		case ch <- event:
		default:
			slog.Warn("Subscriber buffer full, dropping event", "subscriber", id, "event", string(event.Kind))
		}
	}
}
