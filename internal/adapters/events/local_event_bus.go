package events

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

// LocalEventBus fans events out to in-process subscribers. It is used when
// no Redis server is configured.
type LocalEventBus struct {
	subs *fanout
}

// NewLocalEventBus creates an in-memory event bus
func NewLocalEventBus() *LocalEventBus {
	return &LocalEventBus{subs: newFanout()}
}

var _ providers.EventBus = (*LocalEventBus)(nil)

// Publish delivers event to every current subscriber of channel without blocking
func (b *LocalEventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	b.subs.broadcast(channel, event)
	return nil
}

// Subscribe registers a subscriber until ctx is done
func (b *LocalEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	eventChan, _ := b.subs.add(channel)
	go b.subs.release(ctx, channel, eventChan, nil)
	return eventChan, nil
}

// Unsubscribe drops every subscriber of channel
func (b *LocalEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.subs.closeChannel(channel)
	return nil
}

// Close closes every subscription
func (b *LocalEventBus) Close() error {
	b.subs.closeAll()
	return nil
}
