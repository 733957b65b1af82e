package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout tracks the subscriber channels of each bus channel. Delivery never
// blocks: a full subscriber misses the event.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.HospitalEvent]struct{}
	closed      bool
	done        chan struct{}
}

func newFanout() *fanout {
	return &fanout{
		subscribers: make(map[string]map[chan *entities.HospitalEvent]struct{}),
		done:        make(chan struct{}),
	}
}

// release removes eventChan once ctx is done or the fanout is closed
func (f *fanout) release(ctx context.Context, channel string, eventChan chan *entities.HospitalEvent, onEmpty func()) {
	select {
	case <-ctx.Done():
	case <-f.done:
		return
	}
	if f.remove(channel, eventChan) == 0 && onEmpty != nil {
		onEmpty()
	}
}

// add registers a new subscriber. After closeAll it returns an already
// closed channel.
func (f *fanout) add(channel string) (chan *entities.HospitalEvent, int) {
	eventChan := make(chan *entities.HospitalEvent, subscriberBuffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(eventChan)
		return eventChan, 0
	}
	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.HospitalEvent]struct{})
	}
	f.subscribers[channel][eventChan] = struct{}{}
	return eventChan, len(f.subscribers[channel])
}

// remove closes one subscriber and reports how many remain on channel
func (f *fanout) remove(channel string, eventChan chan *entities.HospitalEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers := f.subscribers[channel]
	if _, ok := subscribers[eventChan]; ok {
		delete(subscribers, eventChan)
		close(eventChan)
	}
	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subscribers)
}

func (f *fanout) count(channel string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers[channel])
}

func (f *fanout) broadcast(channel string, event *entities.HospitalEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
}

// closeChannel closes every subscriber of channel
func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subscriber := range f.subscribers[channel] {
		close(subscriber)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for channel, subscribers := range f.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(f.subscribers, channel)
	}
	if !f.closed {
		f.closed = true
		close(f.done)
	}
}
