package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/store"
)

const testHospitalID = "HSP-001"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*store.HospitalStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	var mu sync.Mutex
	counters := map[string]int{}
	s := store.New(store.Options{
		Seed: 7,
		Now:  clock.Now,
		NewID: func(prefix string) string {
			mu.Lock()
			defer mu.Unlock()
			counters[prefix]++
			return fmt.Sprintf("%s-%d", prefix, counters[prefix])
		},
	})
	s.Seed(0)
	return s, clock
}

// recordingBus captures published events per channel
type recordingBus struct {
	mu        sync.Mutex
	published map[string][]*entities.HospitalEvent
}

func newRecordingBus() *recordingBus {
	return &recordingBus{published: make(map[string][]*entities.HospitalEvent)}
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[channel] = append(b.published[channel], event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	return make(chan *entities.HospitalEvent), nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

func (b *recordingBus) Close() error {
	return nil
}

func (b *recordingBus) eventTypes(channel string) []entities.HospitalEventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []entities.HospitalEventType
	for _, e := range b.published[channel] {
		out = append(out, e.EventType)
	}
	return out
}

func newPublisher(bus *recordingBus) *services.EventPublisher {
	return services.NewEventPublisher(bus, testHospitalID, nil)
}
