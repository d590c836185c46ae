package service

import (
	"sync"

	"charging_station"
)

// subscriberBuffer bounds how far a slow consumer may lag before old
// updates are dropped.
const subscriberBuffer = 32

// FeedUpdate is one push from the execution loop: a feedback frame while the
// goal runs, or the terminal result. Exactly one of the fields is set.
type FeedUpdate struct {
	Feedback *charging_station.ChargeFeedback `json:"feedback,omitempty"`
	Result   *charging_station.ChargeResult   `json:"result,omitempty"`
}

// FeedHub fans execution-loop updates out to websocket subscribers. Delivery
// per subscriber is ordered; a full subscriber drops its oldest update rather
// than blocking the execution loop.
type FeedHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan FeedUpdate
}

func NewFeedHub() *FeedHub {
	return &FeedHub{subs: make(map[int]chan FeedUpdate)}
}

// Subscribe registers a consumer. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (h *FeedHub) Subscribe() (<-chan FeedUpdate, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan FeedUpdate, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// publish delivers the update to every subscriber without blocking.
func (h *FeedHub) publish(u FeedUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- u:
		default:
			// Full: drop the oldest update to keep ordering for the rest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
