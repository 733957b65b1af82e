package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	redisclient "github.com/zatekoja/hospitalops/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// every instance sharing the Redis server sees every event. One Redis
// subscription per channel is shared by all local subscribers.
type RedisEventBus struct {
	client *redisclient.Client
	subs   *fanout

	mu      sync.Mutex
	pubsubs map[string]*redis.PubSub

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:  client,
		subs:    newFanout(),
		pubsubs: make(map[string]*redis.PubSub),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("event_type", string(event.EventType)).Msg("Published event")
	return nil
}

// Subscribe subscribes to events on a channel. The returned channel is
// closed when ctx is done or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	if b.ctx.Err() != nil {
		return nil, errors.New("event bus closed")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, listening := b.pubsubs[channel]; !listening {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		b.pubsubs[channel] = pubsub
		go b.relay(channel, pubsub)
	}

	eventChan, count := b.subs.add(channel)
	log.Debug().Str("channel", channel).Int("subscribers", count).Msg("Subscribed to channel")

	go b.subs.release(ctx, channel, eventChan, func() { b.stopListening(channel) })
	return eventChan, nil
}

// relay decodes Redis messages until the subscription is closed
func (b *RedisEventBus) relay(channel string, pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		var event entities.HospitalEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal event")
			continue
		}
		b.subs.broadcast(channel, &event)
	}
}

// stopListening drops the Redis subscription once no local subscriber is left
func (b *RedisEventBus) stopListening(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs.count(channel) > 0 {
		return
	}
	if pubsub, ok := b.pubsubs[channel]; ok {
		delete(b.pubsubs, channel)
		_ = pubsub.Close()
		log.Debug().Str("channel", channel).Msg("Closed subscription")
	}
}

// Unsubscribe closes every local subscriber of channel and the Redis subscription
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs.closeChannel(channel)
	pubsub, ok := b.pubsubs[channel]
	if !ok {
		return nil
	}
	delete(b.pubsubs, channel)
	if err := pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.subs.closeAll()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for channel, pubsub := range b.pubsubs {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
		}
		delete(b.pubsubs, channel)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("errors closing event bus: %w", err)
	}

	log.Info().Msg("Event bus closed")
	return nil
}
